// Package participants detects participant and expert identity cards shown in
// a video and turns them into time-ordered markers.
//
// Frames are decoded on a producer goroutine, downscaled to grayscale and
// passed through a bounded channel to the consumer, which runs OCR, parses
// card text and feeds a session tracker. While no card is showing, a frame
// nearly identical to its predecessor reuses the previous OCR result instead
// of running recognition again.
package participants
