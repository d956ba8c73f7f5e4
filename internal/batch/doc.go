// Package batch discovers input videos, plans one compression task per file,
// and runs the tasks on a bounded worker pool.
//
// The Runner never stops on a failed task; every task ends in exactly one
// Result and results come back in task order. Observers receive start and
// finish callbacks from worker goroutines and must be safe for concurrent use.
// A destination lock keeps two batches from writing into the same directory.
package batch
