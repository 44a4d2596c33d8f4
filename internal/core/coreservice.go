package core

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/jo-hoe/bodymark/internal/baseimage"
	"github.com/jo-hoe/bodymark/internal/markers"
	"github.com/jo-hoe/bodymark/internal/store"
)

// Save rejections. The operation is refused before any state change.
var (
	ErrEmptyLabel    = errors.New("label must not be empty")
	ErrNoPendingDots = errors.New("at least one dot is required")
)

// CoreService owns the base image, the per-session pending dots, and the
// saved entry store.
type CoreService struct {
	config     *ServiceConfig
	baseImage  *image.RGBA
	sessions   *markers.Manager
	entryStore store.EntryStore
}

func NewCoreService(config *ServiceConfig) *CoreService {
	entryStore, err := store.NewEntryStore(config.Store.Type, config.Store.ConnectionString)
	if err != nil {
		slog.Error("failed to initialize entry store", "error", err)
		panic(err)
	}

	return &CoreService{
		config:     config,
		baseImage:  baseimage.Load(config.ImageDir),
		sessions:   markers.NewManager(),
		entryStore: entryStore,
	}
}

// BaseImage returns the immutable body outline image loaded at startup.
func (service *CoreService) BaseImage() *image.RGBA {
	return service.baseImage
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

// Session returns the session-scoped state for the given ID, creating it on
// first contact.
func (service *CoreService) Session(sessionID string) *markers.Session {
	return service.sessions.Session(sessionID)
}

func (service *CoreService) NewSessionID() string {
	return service.sessions.NewSessionID()
}

// ClampDotSize forces a requested dot size into the configured range.
func (service *CoreService) ClampDotSize(size int) int {
	if size < service.config.MinDotSize {
		return service.config.MinDotSize
	}
	if size > service.config.MaxDotSize {
		return service.config.MaxDotSize
	}
	return size
}

// SaveEntry renders the session's pending dots at the given dot size, freezes
// the result as a PNG entry, and clears the pending set. Rejected without any
// state change when the label is blank or no dots are pending.
func (service *CoreService) SaveEntry(sessionID, label string, dotSize int) (*markers.Entry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}

	session := service.Session(sessionID)
	dots := session.Dots()
	if len(dots) == 0 {
		return nil, ErrNoPendingDots
	}

	rendered := markers.Render(service.baseImage, dots, nil, dotSize)
	imageBytes, err := markers.EncodePNG(rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry image: %w", err)
	}

	entry := markers.NewEntry(label, imageBytes, dotSize)
	if err := service.entryStore.Append(sessionID, entry); err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}
	session.ClearDots()

	slog.Info("entry saved",
		"session_id", sessionID,
		"entry_id", entry.ID,
		"label", label,
		"dots", len(dots),
		"dot_size", dotSize)
	return entry, nil
}

// Entries returns the session's saved entries in save order.
func (service *CoreService) Entries(sessionID string) ([]*markers.Entry, error) {
	return service.entryStore.List(sessionID)
}

// Entry returns a single saved entry by its stable ID.
func (service *CoreService) Entry(sessionID, entryID string) (*markers.Entry, error) {
	return service.entryStore.Get(sessionID, entryID)
}

// DeleteEntry removes a saved entry by its stable ID.
func (service *CoreService) DeleteEntry(sessionID, entryID string) error {
	if err := service.entryStore.Delete(sessionID, entryID); err != nil {
		return err
	}
	slog.Info("entry deleted", "session_id", sessionID, "entry_id", entryID)
	return nil
}

func (service *CoreService) Close() error {
	return service.entryStore.Close()
}
