// Package identity decides whether a captured face belongs to an enrolled
// person. Candidates below or at the confidence threshold are rejected, so
// an uncertain service answer never verifies a passenger.
package identity
