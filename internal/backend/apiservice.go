package backend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/bodymark/internal/core"
	"github.com/jo-hoe/bodymark/internal/frontend"
	"github.com/jo-hoe/bodymark/internal/store"
	"github.com/labstack/echo/v4"
)

// APIService exposes the machine-readable surface: a liveness probe and a
// JSON summary of the session's saved entries.
type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

// EntrySummary mirrors the CSV columns plus the stable entry ID.
type EntrySummary struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Label   string `json:"label"`
	DotSize int    `json:"dotSize"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/probe", s.probeHandler)
	e.GET("/api/entries", s.listEntriesHandler)
	e.GET("/api/entries/:id", s.getEntryHandler)
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Body Marking Service is running")
}

func (s *APIService) listEntriesHandler(ctx echo.Context) error {
	sessionID := frontend.SessionID(ctx, s.coreService)

	entries, err := s.coreService.Entries(sessionID)
	if err != nil {
		slog.Error("listEntriesHandler: failed to list entries",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list entries")
	}

	summaries := make([]EntrySummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, EntrySummary{
			ID:      entry.ID,
			Date:    entry.Date(),
			Label:   entry.Label,
			DotSize: entry.DotSize,
		})
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (s *APIService) getEntryHandler(ctx echo.Context) error {
	sessionID := frontend.SessionID(ctx, s.coreService)

	entry, err := s.coreService.Entry(sessionID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return ctx.String(http.StatusNotFound, "Entry not found")
		}
		slog.Error("getEntryHandler: failed to fetch entry",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to fetch entry")
	}
	return ctx.JSON(http.StatusOK, EntrySummary{
		ID:      entry.ID,
		Date:    entry.Date(),
		Label:   entry.Label,
		DotSize: entry.DotSize,
	})
}
