// Package language normalizes the passenger-video language option into the
// English display name the video insight service expects.
package language
