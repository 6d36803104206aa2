package testsupport

import (
	"context"
	"image"
	"io"
	"sync"

	"vidseg/internal/video"
)

// FakeSource is a scripted in-memory video.Source.
type FakeSource struct {
	mu     sync.Mutex
	frames []image.Image
	errs   map[int]error
	next   int
	closed bool
}

// NewFakeSource returns a source yielding frames in order. Errors in errs are
// returned instead of the frame at that index.
func NewFakeSource(frames []image.Image, errs map[int]error) *FakeSource {
	return &FakeSource{frames: frames, errs: errs}
}

// UniformFrames builds n grayscale frames where frame i has every pixel set to
// value(i).
func UniformFrames(n, width, height int, value func(i int) uint8) []image.Image {
	frames := make([]image.Image, n)
	for i := range frames {
		img := image.NewGray(image.Rect(0, 0, width, height))
		v := value(i)
		for p := range img.Pix {
			img.Pix[p] = v
		}
		frames[i] = img
	}
	return frames
}

func (s *FakeSource) advance() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.frames) {
		return 0, io.EOF
	}
	idx := s.next
	s.next++
	return idx, s.errs[idx]
}

// Skip implements video.Source.
func (s *FakeSource) Skip() error {
	_, err := s.advance()
	return err
}

// Decode implements video.Source.
func (s *FakeSource) Decode() (image.Image, error) {
	idx, err := s.advance()
	if err != nil {
		return nil, err
	}
	return s.frames[idx], nil
}

// Close implements video.Source.
func (s *FakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *FakeSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Position returns the number of frames consumed.
func (s *FakeSource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// FakeOpener hands out sources built by New for every Open call and records
// the sampling stride each caller asked for.
type FakeOpener struct {
	New    func() *FakeSource
	Opened []*FakeSource
	Every  []int
}

// Open implements video.Opener.
func (o *FakeOpener) Open(_ context.Context, _ video.Metadata, every int) (video.Source, error) {
	src := o.New()
	o.Opened = append(o.Opened, src)
	o.Every = append(o.Every, every)
	return src, nil
}
