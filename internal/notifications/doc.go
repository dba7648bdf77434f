// Package notifications pushes run progress and flagged-passenger alerts to
// staff over ntfy. An unconfigured topic yields a noop service so callers
// never branch on whether notifications are enabled.
package notifications
