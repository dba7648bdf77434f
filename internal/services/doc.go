// Package services holds cross-cutting plumbing shared by the external
// service clients: sentinel error classification, source resolution for
// image/document inputs, and context correlation helpers.
package services
