package markers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

var (
	dotColor     = color.RGBA{R: 255, A: 255} // committed dots
	previewColor = color.RGBA{B: 255, A: 255} // transient preview dot
)

// Render composites dots onto a copy of the base image. Each dot is a filled
// circle of radius dotSize/2. A non-nil preview point is drawn in a distinct
// color without joining the committed set. The base image is never mutated.
func Render(base image.Image, dots []Point, preview *Point, dotSize int) *image.RGBA {
	bounds := base.Bounds()
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, base, bounds.Min, draw.Src)

	radius := dotSize / 2
	for _, dot := range dots {
		fillCircle(img, dot.X, dot.Y, radius, dotColor)
	}
	if preview != nil {
		fillCircle(img, preview.X, preview.Y, radius, previewColor)
	}
	return img
}

// fillCircle draws a filled circle clipped to the image bounds.
func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	bounds := img.Bounds()
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// EncodePNG serializes an image to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ScaleToWidth scales an image to the target width, preserving aspect ratio.
// Returns the input unchanged when it is already at the target width or the
// target is not positive.
func ScaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx() == 0 || bounds.Dx() == width {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
