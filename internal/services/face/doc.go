// Package face is the HTTP client for the biometric face service: person
// group lifecycle, face detection, pairwise verification, and
// identification against a trained group.
//
// Face identifiers returned by Detect are session-scoped and expire; they
// must never be cached across runs.
package face
