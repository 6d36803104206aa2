package video

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// PrepareGray downscales img proportionally when it is taller than maxHeight
// and converts the result to 8-bit grayscale. The transformation is
// deterministic so consecutive frames remain comparable.
func PrepareGray(img image.Image, maxHeight int) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	src := img
	if maxHeight > 0 && h > maxHeight {
		scale := float64(maxHeight) / float64(h)
		newW := max(int(float64(w)*scale), 1)
		scaled := image.NewRGBA(image.Rect(0, 0, newW, maxHeight))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		src = scaled
	}

	if gray, ok := src.(*image.Gray); ok && gray.Bounds().Min == (image.Point{}) {
		return gray
	}
	sb := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			out.SetGray(x, y, color.GrayModel.Convert(src.At(sb.Min.X+x, sb.Min.Y+y)).(color.Gray))
		}
	}
	return out
}

// MeanAbsDiff returns the mean absolute per-pixel difference between two
// grayscale frames. Frames of different sizes are maximally different.
func MeanAbsDiff(a, b *image.Gray) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() || ab.Empty() {
		return math.Inf(1)
	}
	var total uint64
	for y := 0; y < ab.Dy(); y++ {
		offA := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		offB := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		rowA := a.Pix[offA : offA+ab.Dx()]
		rowB := b.Pix[offB : offB+bb.Dx()]
		for x := range rowA {
			d := int(rowA[x]) - int(rowB[x])
			if d < 0 {
				d = -d
			}
			total += uint64(d)
		}
	}
	return float64(total) / float64(ab.Dx()*ab.Dy())
}
