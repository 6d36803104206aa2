// Package classifier defines the frame classifier contract and an HTTP client
// for a remote inference service.
//
// A Classifier receives a batch of frames and returns one Prediction per
// frame in the same order. HTTPClient encodes frames as base64 JPEG, posts
// them to <url>/classify and retries transient failures with capped
// exponential backoff.
package classifier
