// Package fdtable implements per-process descriptor tables and ref-counted
// open files.
//
// A File wraps an open resource and counts its owners; the underlying
// resource closes when the last owner releases. A Table maps small integer
// descriptor numbers to files for one destination process.
//
// Descriptor installation is split so the table is never left holding a
// slot bound to no file: slots are reserved first (reversible), descriptor
// numbers are published, and only then is each slot bound to its file.
package fdtable
