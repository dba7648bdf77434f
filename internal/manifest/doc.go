// Package manifest loads the authoritative passenger manifest, the
// source-of-truth record every travel document is cross-checked against.
package manifest
