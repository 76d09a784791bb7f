// Package compile drives one batch compile run.
//
// A run resolves the contract set (explicit paths, or every contract under the
// configured source root), makes sure the output directories exist, and then
// compiles contracts strictly one after another: the before-compile hooks run
// in registry order, then the external compiler is spawned and awaited.
//
// The two failure paths are deliberately different. A hook error aborts the
// run immediately and Run returns it with no report. A compiler exiting
// non-zero is recorded in the Report and the run continues with the next
// contract; all failures are reported together at the end.
package compile
