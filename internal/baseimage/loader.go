package baseimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// Fallback canvas dimensions used when no body outline image is found.
	FallbackWidth  = 500
	FallbackHeight = 800
)

// Load scans dir for an image file whose name hints at a body outline and
// decodes it into an RGBA image. When no candidate exists or decoding fails it
// falls back to a blank white canvas. Runs once at startup; the result is
// immutable for the process lifetime.
func Load(dir string) *image.RGBA {
	path, found := findBodyImage(dir)
	if !found {
		slog.Warn("no body outline image found, using a blank placeholder", "dir", dir)
		return BlankCanvas(FallbackWidth, FallbackHeight)
	}

	img, err := decodeFile(path)
	if err != nil {
		slog.Error("failed to load body outline image, using a blank placeholder",
			"path", path, "error", err)
		return BlankCanvas(FallbackWidth, FallbackHeight)
	}

	slog.Info("loaded body outline image",
		"path", path,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return toRGBA(img)
}

// findBodyImage returns the first image file in dir whose name contains
// "human" or "body" (case-insensitive), in directory listing order.
func findBodyImage(dir string) (string, bool) {
	files, err := os.ReadDir(dir)
	if err != nil {
		slog.Error("failed to scan directory for body outline image", "dir", dir, "error", err)
		return "", false
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := strings.ToLower(file.Name())
		switch filepath.Ext(name) {
		case ".png", ".jpg", ".jpeg", ".svg":
		default:
			continue
		}
		if strings.Contains(name, "human") || strings.Contains(name, "body") {
			return filepath.Join(dir, file.Name()), true
		}
	}
	return "", false
}

func decodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return rasterizeSVG(data)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	slog.Debug("decoded body outline image", "format", format)
	return img, nil
}

// rasterizeSVG renders an SVG body outline onto a white canvas at its declared
// size, falling back to the blank-canvas dimensions when none is declared.
func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	width := int(icon.ViewBox.W)
	height := int(icon.ViewBox.H)
	if width <= 0 || height <= 0 {
		width = FallbackWidth
		height = FallbackHeight
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := BlankCanvas(width, height)
	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

// BlankCanvas returns a white RGBA canvas of the given size.
func BlankCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
