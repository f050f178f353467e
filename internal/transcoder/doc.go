// Package transcoder pulls subtitle tracks out of media containers with
// ffmpeg and lists them with ffprobe.
//
// Key types:
//   - Transcoder: binds the ffmpeg/ffprobe binaries
//   - Stream: one subtitle stream as reported by ffprobe
//
// Extracted tracks are written next to the media file with its extension
// replaced by .srt.
package transcoder
