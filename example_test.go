package binvec_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/binvec"
	"github.com/hupe1980/binvec/blobstore"
	"github.com/hupe1980/binvec/testutil"
)

// ExampleConverter_Run converts a tiny dataset and prints the console report.
func ExampleConverter_Run() {
	dir, err := os.MkdirTemp("", "binvec-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	paths := binvec.Paths{
		Base:        filepath.Join(dir, "base.i8bin"),
		Query:       filepath.Join(dir, "query.i32bin"),
		GroundTruth: filepath.Join(dir, "gt.bin"),
	}
	_ = os.WriteFile(paths.Base, testutil.BaseDump(2, 3, []int8{1, 2, 3, 4, 5, 6}), 0o644)
	_ = os.WriteFile(paths.Query, testutil.QueryDump(1, 3, []int32{1, 2, 3}), 0o644)
	_ = os.WriteFile(paths.GroundTruth, testutil.GroundTruthDump(1, 2, []int32{7, 9}, []float32{0.5, 1.5}), 0o644)

	c, err := binvec.New()
	if err != nil {
		log.Fatal(err)
	}
	if _, err := c.Run(context.Background(), paths); err != nil {
		log.Fatal(err)
	}
	// Output:
	// Base vector file size: 14
	// base_vec_count: 2
	// base_vec_dimension: 3
	// Base vector shape: (2, 3)
	// Query vector shape: (1, 3)
	// Ground Truth shape: (1, 2)
	// Ground Truth distance shape: (1, 2)
}

// ExampleWithOutputStore writes arrays to a separate store keyed by base name.
func ExampleWithOutputStore() {
	in := blobstore.NewMemoryStore()
	in.Put("data/gt.bin", testutil.GroundTruthDump(1, 2, []int32{7, 9}, []float32{0.5, 1.5}))
	out := blobstore.NewMemoryStore()

	c, err := binvec.New(
		binvec.WithInputStore(in),
		binvec.WithOutputStore(out, binvec.BaseName),
		binvec.WithSaveDistances(true),
		binvec.WithStdout(nil),
	)
	if err != nil {
		log.Fatal(err)
	}
	if _, _, err := c.ConvertGroundTruth(context.Background(), "data/gt.bin"); err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.List(""))
	// Output: [gt.bin.dist.npy gt.bin.npy]
}
