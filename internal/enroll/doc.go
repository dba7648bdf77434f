// Package enroll builds and trains biometric person groups from reference
// face images. Enrollment detects faces before registering them so that
// unusable images are skipped instead of failing the whole group, and
// training is polled until the service reports a terminal state.
package enroll
