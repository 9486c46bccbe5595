// Package lineindex provides byte-offset <-> line/column lookups.
//
// Index is a thin façade, not an independent data structure: it delegates
// every query to a rope-backed source's per-chunk newline counts (already
// maintained at zero extra asymptotic cost by internal/rope) rather than
// keeping a flat offsets array of its own. This satisfies the line_of /
// start_of / end_of / line_count contract with the tree form scales
// correctly to very large files, at the cost of the source doing an
// O(log lines) tree descent per call instead of an O(1) array index.
//
// A Frontier method is retained on Index for API compatibility with callers
// that inspect how far the index has scanned ahead: this implementation
// always maintains newline counts eagerly (piggy-backed on every rope
// mutation), so Frontier always reports the tail of the source.
package lineindex
