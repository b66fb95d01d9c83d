// Package unidiff segments unified-diff text into file sections and hunks and
// re-emits a selected subset of those hunks as a new patch.
//
// The parser is deliberately lenient: it never fails, it accepts the common
// "@@" range-marker spellings, and it synthesizes a file section when a hunk
// appears without a preceding file header. Original bytes are preserved for
// everything the package does not need to reinterpret, which makes a written
// selection a strict subset of the input text.
package unidiff
