// Package marker tracks positions in a buffer that must survive edits:
// overlay anchors, conceal ranges, and any other byte offset a caller
// wants to follow across inserts and deletes rather than re-locate by
// hand after every mutation.
//
// A Tree keeps markers sorted by current offset and adjusts them in bulk
// when told about an edit, using the same insertion/deletion gravity math
// as internal/cursor's single-cursor transforms, generalized to a
// maintained collection. Markers are namespaced so a caller that owns a
// set of them (an overlay, a conceal range) can remove exactly its own
// markers without disturbing anyone else's.
package marker
