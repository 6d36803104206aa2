// Package ocr reads text from grayscale frames.
//
// Tesseract shells out to the tesseract CLI through an injectable Executor;
// HTTPReader posts PNG frames to a remote recognition service. Both satisfy
// Reader, which returns the recognised text (possibly empty) for one frame.
package ocr
