// Package config loads, normalizes, and validates vidseg configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIDSEG_CLASSIFIER_URL. The Config type centralizes every knob the
// segmentation engine and CLI need, so sampling strides, smoothing windows and
// OCR session thresholds are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
