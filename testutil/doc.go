// Package testutil provides testing utilities for binvec.
//
// This package is intended for use in tests only. It generates
// deterministic payloads and encodes them in the dump layouts the loaders
// read, so tests can build fixtures without checked-in binaries.
//
//	rng := testutil.NewRNG(42)
//	base := rng.Int8s(4 * 16)
//	path := testutil.WriteFile(t, dir, "base.i8bin", testutil.BaseDump(4, 16, base))
package testutil
