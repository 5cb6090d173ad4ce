// Package extend turns a query set and its ground truth into a longer,
// skewed query workload.
//
// Repeated queries are dropped first. A YCSB-style key sequence is then drawn
// over the remaining queries, the keys are ranked by frequency and mapped onto
// query rows, and every key is replaced by its query row and ground-truth row.
// The results are written as dumps in the input layout, so they can be fed
// back into binvec.
//
// Example:
//
//	e, err := extend.New(1_000_000, extend.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	res, err := extend.Run[int32](ctx, e, extend.Paths{
//		Query:             "query.i32bin",
//		GroundTruth:       "gt.bin",
//		OutputQuery:       "query.ext.i32bin",
//		OutputGroundTruth: "gt.ext.bin",
//	})
package extend
