// Package crossval compares extracted travel-document fields against the
// manifest record. All checks are pure functions: nil means the documents
// agree, a non-nil Mismatch carries the staff-facing message.
package crossval
