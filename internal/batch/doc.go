// Package batch runs subtitle operations across many files sequentially.
//
// Files are processed one at a time in the order given. A failure on one file
// is recorded and the run moves on; only setup problems (bad request, history
// database unavailable) abort a run. Stop requests are cooperative and take
// effect between files, never mid-mux. Run history persists in a SQLite
// database guarded by a file lock so two batch invocations cannot interleave.
package batch
