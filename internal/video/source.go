package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
)

// Source provides sequential access to the frames of one video. Both Skip and
// Decode return io.EOF once the stream is exhausted. A Decode error wrapping
// services.ErrDecode affects only the current frame.
type Source interface {
	Skip() error
	Decode() (image.Image, error)
	Close() error
}

// Opener creates a fresh Source positioned at the first frame. every is the
// caller's sampling stride: only frames whose index is a multiple of every
// will be decoded, so an Opener may drop the others before they are
// transferred. Values below 2 mean every frame.
type Opener interface {
	Open(ctx context.Context, meta Metadata, every int) (Source, error)
}

// rawSource reads packed rgb24 frames from a byte stream. With every > 1 the
// stream holds only frames 0, every, 2*every, ... and the frames between them
// are skipped without reading.
type rawSource struct {
	r      io.Reader
	width  int
	height int
	every  int
	pos    int
	eof    bool
	buf    []byte
	closer func() error
}

// NewRawSource wraps a reader producing packed rgb24 frames of the given size.
func NewRawSource(r io.Reader, width, height, every int) (Source, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raw source: invalid frame size %dx%d", width, height)
	}
	if every < 1 {
		every = 1
	}
	return &rawSource{r: r, width: width, height: height, every: every, buf: make([]byte, width*height*3)}, nil
}

// inStream reports whether the current frame is present in the byte stream.
func (s *rawSource) inStream() bool {
	return s.pos%s.every == 0
}

func (s *rawSource) Skip() error {
	if s.eof {
		return io.EOF
	}
	if s.inStream() {
		if err := s.fill(); err != nil {
			return err
		}
	}
	s.pos++
	return nil
}

func (s *rawSource) Decode() (image.Image, error) {
	if s.eof {
		return nil, io.EOF
	}
	if !s.inStream() {
		return nil, fmt.Errorf("raw source: frame %d was dropped by sampling every %d frames", s.pos, s.every)
	}
	if err := s.fill(); err != nil {
		return nil, err
	}
	s.pos++
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for src, dst := 0, 0; src < len(s.buf); src, dst = src+3, dst+4 {
		img.Pix[dst] = s.buf[src]
		img.Pix[dst+1] = s.buf[src+1]
		img.Pix[dst+2] = s.buf[src+2]
		img.Pix[dst+3] = 0xff
	}
	return img, nil
}

// fill reads one frame. A truncated trailing frame is treated as end of stream.
func (s *rawSource) fill() error {
	_, err := io.ReadFull(s.r, s.buf)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	if errors.Is(err, io.EOF) {
		s.eof = true
	}
	return err
}

func (s *rawSource) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
