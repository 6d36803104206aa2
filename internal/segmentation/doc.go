// Package segmentation turns per-frame classifier output into contiguous task
// segments.
//
// The pipeline is Classify (sampled, batched inference over a frame source),
// Smooth (windowed majority vote backed by prefix sums), Enforce (merge
// sub-minimum runs into their longer neighbour until none remain) and
// Aggregate (collapse runs into time ranges). Segment chains the last three.
package segmentation
