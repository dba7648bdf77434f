// Package verification sequences the per-passenger checks: document field
// extraction, manifest cross-validation, biometric enrollment from the
// presented video, and identity matching against the presented ID card. It
// aggregates the outcomes into validation records, writes the validated
// manifest, and persists every decision for later review.
package verification
