// Package records persists verification runs and their per-passenger
// outcomes in a local SQLite database so staff can review past decisions
// after the kiosk session ends.
package records
