// Package restore maps abstracted analysis output back to human-readable text.
//
// The redaction service rewrites code before analysis using two per-file maps:
// an abstraction map (original -> placeholder) for structural renames and a
// secret map (placeholder -> original) for removed sensitive values. Restore
// inverts the abstraction map, overlays the secret map (the secret entry wins
// a placeholder collision), and replaces placeholders longest first so that a
// placeholder which is a substring of a longer one cannot corrupt it.
//
// Replacement is plain substring substitution. It relies on the redaction
// service generating placeholders unlikely to occur as natural code text; this
// core cannot verify that property.
package restore
