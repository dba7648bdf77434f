// Package videoindex is the HTTP client for the video insight service:
// upload, index retrieval (including processing state), and thumbnail
// download. The insight document is the source of the passenger's reference
// face images.
package videoindex
