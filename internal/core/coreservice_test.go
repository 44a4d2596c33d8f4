package core

import (
	"errors"
	"testing"

	"github.com/jo-hoe/bodymark/internal/baseimage"
	"github.com/jo-hoe/bodymark/internal/markers"
)

func newTestService(t *testing.T) *CoreService {
	t.Helper()

	config := DefaultConfig()
	config.ImageDir = t.TempDir() // no outline image, blank canvas fallback
	service := NewCoreService(config)
	t.Cleanup(func() { _ = service.Close() })
	return service
}

func TestNewCoreService_FallbackCanvas(t *testing.T) {
	service := newTestService(t)

	bounds := service.BaseImage().Bounds()
	if bounds.Dx() != baseimage.FallbackWidth || bounds.Dy() != baseimage.FallbackHeight {
		t.Errorf("expected %dx%d fallback canvas, got %dx%d",
			baseimage.FallbackWidth, baseimage.FallbackHeight, bounds.Dx(), bounds.Dy())
	}
}

func TestSaveEntry_EmptyLabelRejected(t *testing.T) {
	service := newTestService(t)
	session := service.Session("session-a")
	session.AddDot(markers.Point{X: 10, Y: 10})

	for _, label := range []string{"", "   "} {
		if _, err := service.SaveEntry("session-a", label, 6); !errors.Is(err, ErrEmptyLabel) {
			t.Errorf("label %q: expected ErrEmptyLabel, got %v", label, err)
		}
	}

	entries, err := service.Entries("session-a")
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if len(entries) != 0 {
		t.Error("rejected save must not change the entry list")
	}
	if session.DotCount() != 1 {
		t.Error("rejected save must not change the pending set")
	}
}

func TestSaveEntry_NoDotsRejected(t *testing.T) {
	service := newTestService(t)

	if _, err := service.SaveEntry("session-a", "Scar", 6); !errors.Is(err, ErrNoPendingDots) {
		t.Fatalf("expected ErrNoPendingDots, got %v", err)
	}

	entries, err := service.Entries("session-a")
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if len(entries) != 0 {
		t.Error("rejected save must not change the entry list")
	}
}

func TestSaveEntry_FreezesImageAndClearsPending(t *testing.T) {
	service := newTestService(t)
	session := service.Session("session-a")
	session.AddDot(markers.Point{X: 10, Y: 10})
	session.AddDot(markers.Point{X: 20, Y: 20})

	entry, err := service.SaveEntry("session-a", "Scar", 6)
	if err != nil {
		t.Fatalf("SaveEntry error: %v", err)
	}

	if entry.ID == "" {
		t.Error("expected a stable entry ID")
	}
	if entry.Label != "Scar" {
		t.Errorf("Label = %q, expected %q", entry.Label, "Scar")
	}
	if entry.DotSize != 6 {
		t.Errorf("DotSize = %d, expected 6", entry.DotSize)
	}
	if len(entry.Image) == 0 {
		t.Error("expected frozen PNG bytes")
	}
	if session.DotCount() != 0 {
		t.Error("pending set must be cleared after save")
	}

	entries, err := service.Entries("session-a")
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	// A saved image differs from the blank base at the marked positions.
	base, err := markers.EncodePNG(service.BaseImage())
	if err != nil {
		t.Fatalf("EncodePNG error: %v", err)
	}
	if string(base) == string(entry.Image) {
		t.Error("expected entry image to differ from the base image")
	}
}

func TestSaveEntry_TrimsLabel(t *testing.T) {
	service := newTestService(t)
	service.Session("session-a").AddDot(markers.Point{X: 1, Y: 1})

	entry, err := service.SaveEntry("session-a", "  Scar  ", 6)
	if err != nil {
		t.Fatalf("SaveEntry error: %v", err)
	}
	if entry.Label != "Scar" {
		t.Errorf("Label = %q, expected trimmed %q", entry.Label, "Scar")
	}
}

func TestDeleteEntry(t *testing.T) {
	service := newTestService(t)
	session := service.Session("session-a")

	var ids []string
	for _, label := range []string{"one", "two", "three"} {
		session.AddDot(markers.Point{X: 5, Y: 5})
		entry, err := service.SaveEntry("session-a", label, 6)
		if err != nil {
			t.Fatalf("SaveEntry(%s) error: %v", label, err)
		}
		ids = append(ids, entry.ID)
	}

	if err := service.DeleteEntry("session-a", ids[1]); err != nil {
		t.Fatalf("DeleteEntry error: %v", err)
	}

	entries, err := service.Entries("session-a")
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Label != "one" || entries[1].Label != "three" {
		t.Error("remaining entries lost their relative order")
	}
}

func TestClampDotSize(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		input    int
		expected int
	}{
		{1, 2},
		{2, 2},
		{6, 6},
		{30, 30},
		{31, 30},
	}
	for _, tt := range tests {
		if got := service.ClampDotSize(tt.input); got != tt.expected {
			t.Errorf("ClampDotSize(%d) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}
