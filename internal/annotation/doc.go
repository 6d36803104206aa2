// Package annotation defines the task segments, participant markers and video
// annotations produced by a processing run, along with the heuristic that
// joins the two timelines.
package annotation
