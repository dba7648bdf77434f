// Package insights turns indexed passenger videos into verification inputs.
// It waits for the insight service to finish processing, downloads the face
// thumbnails it extracted, and summarizes the sentiment and emotion
// observations for the run report.
package insights
