// Package io writes gembridge's output files.
//
// # Atomic writes
//
// Gem archives and gemspec files are written with [WriteFileAtomic]: the
// content goes to a temporary file in the destination directory, which is
// then renamed over the target. Readers never observe a partially written
// file, and concurrent writers to the same path resolve as last-writer-wins.
//
//	err := io.WriteFileAtomic("out/a-1.0-java.gem", func(w io.Writer) error {
//	    return gems.WritePackage(w, spec, codec, files)
//	})
//
// [EnsureDir] creates an output directory and probes that it is writable
// before any work is done.
//
// # JSON export
//
// Use [ExportJSON] to write a value, such as a scan report, to a file, or
// [WriteJSON] to write to any io.Writer. Output is indented with two spaces.
package io
