package markers

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func whiteCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// distSq returns the squared distance from (x, y) to the nearest dot center.
func distSq(x, y int, dots []Point) int {
	best := -1
	for _, dot := range dots {
		dx := x - dot.X
		dy := y - dot.Y
		d := dx*dx + dy*dy
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func TestRender_DoesNotMutateBase(t *testing.T) {
	base := whiteCanvas(100, 100)

	Render(base, []Point{{X: 50, Y: 50}}, nil, 10)

	if base.RGBAAt(50, 50) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("base image was mutated by Render")
	}
}

func TestRender_DotsWithinRadius(t *testing.T) {
	base := whiteCanvas(100, 100)
	dots := []Point{{X: 10, Y: 10}, {X: 20, Y: 20}}
	dotSize := 6
	radius := dotSize / 2

	rendered := Render(base, dots, nil, dotSize)

	white := color.RGBA{255, 255, 255, 255}
	changed := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if rendered.RGBAAt(x, y) == white {
				continue
			}
			changed++
			if distSq(x, y, dots) > radius*radius {
				t.Fatalf("pixel (%d,%d) changed outside dot radius %d", x, y, radius)
			}
		}
	}
	if changed == 0 {
		t.Fatal("expected dots to produce non-background pixels")
	}
}

func TestRender_DotCenterIsRed(t *testing.T) {
	base := whiteCanvas(100, 100)

	rendered := Render(base, []Point{{X: 30, Y: 40}}, nil, 6)

	if rendered.RGBAAt(30, 40) != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red dot center, got %v", rendered.RGBAAt(30, 40))
	}
}

func TestRender_PreviewDotIsBlueAndTransient(t *testing.T) {
	base := whiteCanvas(100, 100)
	preview := Point{X: 60, Y: 60}

	rendered := Render(base, nil, &preview, 6)

	if rendered.RGBAAt(60, 60) != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("expected blue preview dot, got %v", rendered.RGBAAt(60, 60))
	}

	// Rendering without the preview leaves the position untouched.
	rendered = Render(base, nil, nil, 6)
	if rendered.RGBAAt(60, 60) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("preview dot must not persist")
	}
}

func TestRender_ClipsAtImageEdge(t *testing.T) {
	base := whiteCanvas(50, 50)

	// Must not panic when the circle extends past the bounds.
	rendered := Render(base, []Point{{X: 0, Y: 0}, {X: 49, Y: 49}}, nil, 30)

	if rendered.RGBAAt(0, 0) != (color.RGBA{R: 255, A: 255}) {
		t.Error("expected corner dot to be drawn")
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	base := whiteCanvas(10, 10)

	data, err := EncodePNG(base)
	if err != nil {
		t.Fatalf("EncodePNG error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected PNG bytes")
	}

	signature := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	for i, b := range signature {
		if data[i] != b {
			t.Fatalf("invalid PNG signature at byte %d", i)
		}
	}
}

func TestScaleToWidth(t *testing.T) {
	tests := []struct {
		name           string
		srcW, srcH     int
		targetWidth    int
		expectedWidth  int
		expectedHeight int
	}{
		{"downscale", 500, 800, 350, 350, 560},
		{"upscale", 100, 100, 200, 200, 200},
		{"same width unchanged", 350, 560, 350, 350, 560},
		{"non-positive width unchanged", 500, 800, 0, 500, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scaled := ScaleToWidth(whiteCanvas(tt.srcW, tt.srcH), tt.targetWidth)
			bounds := scaled.Bounds()
			if bounds.Dx() != tt.expectedWidth || bounds.Dy() != tt.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d",
					tt.expectedWidth, tt.expectedHeight, bounds.Dx(), bounds.Dy())
			}
		})
	}
}
