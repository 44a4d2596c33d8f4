package frontend

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/jo-hoe/bodymark/internal/core"
	"github.com/jo-hoe/bodymark/internal/export"
	"github.com/jo-hoe/bodymark/internal/markers"
	"github.com/jo-hoe/bodymark/internal/store"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	mimePNG      = "image/png"
	mimeCSV      = "text/csv"

	sessionCookieName = "bodymark_session"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

// SessionID returns the caller's session ID from the session cookie, minting a
// new one (and setting the cookie) on first contact. Each session owns an
// independent pending set and entry list.
func SessionID(ctx echo.Context, coreService *core.CoreService) string {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := coreService.NewSessionID()
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)

	// Live preview of the base image with pending dots plus the blue cursor dot
	e.GET("/htmx/preview", service.previewImageHandler)
	e.GET("/htmx/preview-frame", service.previewFrameHandler)

	// Pending dot mutations
	e.POST("/htmx/dot", service.addDotHandler)
	e.POST("/htmx/dot/undo", service.undoDotHandler)
	e.POST("/htmx/dot/clear", service.clearDotsHandler)

	// Saved entries
	e.POST("/htmx/entry", service.saveEntryHandler)
	e.GET("/htmx/entries", service.listEntriesHandler)
	e.GET("/htmx/entry/thumb/:id", service.entryThumbnailHandler)
	e.DELETE("/htmx/entry/:id", service.deleteEntryHandler)

	// Downloads
	e.GET("/entry/:id/image", service.downloadEntryImageHandler)
	e.GET("/export/csv", service.exportCSVHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

type indexData struct {
	MaxX         int
	MaxY         int
	DisplayWidth int
	DefaultX     int
	DefaultY     int
	DotSize      int
	MinDotSize   int
	MaxDotSize   int
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	bounds := service.coreService.BaseImage().Bounds()
	data := indexData{
		MaxX:         bounds.Dx() - 1,
		MaxY:         bounds.Dy() - 1,
		DisplayWidth: service.config.DisplayWidth,
		DefaultX:     bounds.Dx() / 2,
		DefaultY:     bounds.Dy() / 2,
		DotSize:      service.config.DefaultDotSize,
		MinDotSize:   service.config.MinDotSize,
		MaxDotSize:   service.config.MaxDotSize,
	}
	return ctx.Render(http.StatusOK, MainPageName, data)
}

// previewImageHandler streams the composited preview PNG: base image, all
// pending dots in red, and the current cursor position in blue.
func (service *FrontendService) previewImageHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	session := service.coreService.Session(sessionID)

	cursor := service.cursorFromParams(ctx)
	dotSize := service.dotSizeFromParam(ctx.QueryParam("size"))

	rendered := markers.Render(service.coreService.BaseImage(), session.Dots(), &cursor, dotSize)
	scaled := markers.ScaleToWidth(rendered, service.config.DisplayWidth)
	imageBytes, err := markers.EncodePNG(scaled)
	if err != nil {
		slog.Error("previewImageHandler: failed to encode preview",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render preview")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, imageBytes)
}

// previewFrameHandler returns the preview img element, used by slider inputs
// to refresh the composited image as the cursor moves.
func (service *FrontendService) previewFrameHandler(ctx echo.Context) error {
	cursor := service.cursorFromParams(ctx)
	dotSize := service.dotSizeFromParam(ctx.QueryParam("size"))

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, service.buildPreviewHTML(cursor, dotSize, service.timestampNanoStr()))
}

func (service *FrontendService) addDotHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	session := service.coreService.Session(sessionID)

	cursor := service.cursorFromParams(ctx)
	dotSize := service.dotSizeFromParam(ctx.FormValue("size"))
	session.AddDot(cursor)

	slog.Info("dot added", "session_id", sessionID, "x", cursor.X, "y", cursor.Y)
	return service.respondWithPendingState(ctx, session, cursor, dotSize, "")
}

func (service *FrontendService) undoDotHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	session := service.coreService.Session(sessionID)

	cursor := service.cursorFromParams(ctx)
	dotSize := service.dotSizeFromParam(ctx.FormValue("size"))
	session.UndoDot()

	return service.respondWithPendingState(ctx, session, cursor, dotSize, "")
}

func (service *FrontendService) clearDotsHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	session := service.coreService.Session(sessionID)

	cursor := service.cursorFromParams(ctx)
	dotSize := service.dotSizeFromParam(ctx.FormValue("size"))
	session.ClearDots()

	return service.respondWithPendingState(ctx, session, cursor, dotSize, "")
}

func (service *FrontendService) saveEntryHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	session := service.coreService.Session(sessionID)

	cursor := service.cursorFromParams(ctx)
	dotSize := service.dotSizeFromParam(ctx.FormValue("size"))
	label := ctx.FormValue("label")

	_, err := service.coreService.SaveEntry(sessionID, label, dotSize)
	if err != nil {
		if errors.Is(err, core.ErrEmptyLabel) || errors.Is(err, core.ErrNoPendingDots) {
			slog.Warn("saveEntryHandler: entry rejected", "session_id", sessionID, "reason", err)
			warning := `<span class="warning">Please add at least one dot and a label.</span>`
			return ctx.HTML(http.StatusOK, warning)
		}
		slog.Error("saveEntryHandler: failed to save entry",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to save entry")
	}

	// Pending set is cleared on save; refresh preview, pending count, and the
	// entry list via out-of-band swaps.
	listOOB, err := service.buildEntryListOOB(sessionID)
	if err != nil {
		slog.Error("saveEntryHandler: failed to list entries for OOB update",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.HTML(http.StatusOK, `<span class="success">Entry saved.</span>`)
	}
	return service.respondWithPendingState(ctx, session, cursor, dotSize,
		`<span class="success">Entry saved.</span>`+listOOB)
}

func (service *FrontendService) listEntriesHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)

	listHTML, err := service.buildEntryListHTML(sessionID, service.timestampNanoStr())
	if err != nil {
		slog.Error("listEntriesHandler: failed to list entries",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list entries")
	}

	// Prevent caching so the latest entries are always shown
	service.setNoCache(ctx)

	return ctx.HTML(http.StatusOK, listHTML)
}

func (service *FrontendService) entryThumbnailHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	id := ctx.Param("id")

	entry, err := service.coreService.Entry(sessionID, id)
	if err != nil {
		slog.Warn("entryThumbnailHandler: entry not available",
			"status", http.StatusNotFound, "entry_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Entry not available")
	}

	thumbnail, err := service.toThumbnail(entry.Image)
	if err != nil {
		slog.Warn("entryThumbnailHandler: thumbnail not available",
			"status", http.StatusNotFound, "entry_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Thumbnail not available")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (service *FrontendService) deleteEntryHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	id := ctx.Param("id")
	if id == "" {
		slog.Warn("deleteEntryHandler: missing entry id",
			"status", http.StatusBadRequest,
			"route", "/htmx/entry/:id")
		return ctx.String(http.StatusBadRequest, "Missing entry ID")
	}

	if err := service.coreService.DeleteEntry(sessionID, id); err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return ctx.String(http.StatusNotFound, "Entry not found")
		}
		slog.Error("deleteEntryHandler: failed to delete entry",
			"status", http.StatusInternalServerError, "entry_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete entry")
	}

	listHTML, err := service.buildEntryListHTML(sessionID, service.timestampNanoStr())
	if err != nil {
		slog.Error("deleteEntryHandler: failed to list entries after delete",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list entries")
	}

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, listHTML)
}

func (service *FrontendService) downloadEntryImageHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)
	id := ctx.Param("id")

	entry, err := service.coreService.Entry(sessionID, id)
	if err != nil {
		slog.Warn("downloadEntryImageHandler: entry not available",
			"status", http.StatusNotFound, "entry_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Entry not available")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.ImageFilename(entry)))
	return ctx.Blob(http.StatusOK, mimePNG, entry.Image)
}

func (service *FrontendService) exportCSVHandler(ctx echo.Context) error {
	sessionID := SessionID(ctx, service.coreService)

	entries, err := service.coreService.Entries(sessionID)
	if err != nil {
		slog.Error("exportCSVHandler: failed to list entries",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to export entries")
	}

	csvBytes, err := export.EntriesCSV(entries)
	if err != nil {
		slog.Error("exportCSVHandler: failed to build CSV",
			"status", http.StatusInternalServerError, "session_id", sessionID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to export entries")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.CSVFilename))
	return ctx.Blob(http.StatusOK, mimeCSV, csvBytes)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}

// respondWithPendingState answers a mutation with a status fragment plus
// out-of-band swaps refreshing the preview image and the pending dot count.
func (service *FrontendService) respondWithPendingState(ctx echo.Context, session *markers.Session, cursor markers.Point, dotSize int, statusHTML string) error {
	ts := service.timestampNanoStr()
	previewOOB := fmt.Sprintf(`<div id="preview" hx-swap-oob="true">%s</div>`,
		service.buildPreviewHTML(cursor, dotSize, ts))
	countOOB := fmt.Sprintf(`<span id="pending-count" hx-swap-oob="true">%d</span>`,
		session.DotCount())

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, statusHTML+previewOOB+countOOB)
}

func (service *FrontendService) buildPreviewHTML(cursor markers.Point, dotSize int, ts string) string {
	return fmt.Sprintf(
		`<img src="/htmx/preview?x=%d&y=%d&size=%d&ts=%s" alt="Body outline preview" width="%d">`,
		cursor.X, cursor.Y, dotSize, ts, service.config.DisplayWidth)
}

func (service *FrontendService) buildEntryListOOB(sessionID string) (string, error) {
	listHTML, err := service.buildEntryListHTML(sessionID, service.timestampNanoStr())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<div id="entry-list" hx-swap-oob="true">%s</div>`, listHTML), nil
}

func (service *FrontendService) buildEntryListHTML(sessionID, ts string) (string, error) {
	entries, err := service.coreService.Entries(sessionID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString(`<p>No entries saved yet.</p>`)
		return b.String(), nil
	}

	b.WriteString(`<table><thead><tr><th>Date</th><th>Label</th><th>Dot Size</th></tr></thead><tbody>`)
	for _, entry := range entries {
		b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%d</td></tr>`,
			entry.Date(), html.EscapeString(entry.Label), entry.DotSize))
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<div class="vertical-list" id="entry-sort-list">`)
	for _, entry := range entries {
		b.WriteString(fmt.Sprintf(`<div class="vertical-item" data-id="%s" style="margin-bottom:1rem"><article>
	<strong>%s</strong> — <em>%s</em> (Dot size: %d)
	<img src="/htmx/entry/thumb/%s?ts=%s" alt="Saved entry %s" style="display:block;max-width:100%%;height:auto">
	<footer style="display:flex;gap:0.5rem;align-items:center;flex-wrap:wrap">
		<a href="/entry/%s/image" download>Download Image</a>
		<button hx-delete="/htmx/entry/%s" hx-target="#entry-list" hx-swap="innerHTML" class="secondary">Delete</button>
	</footer>
</article></div>`,
			entry.ID,
			html.EscapeString(entry.Label), entry.Date(), entry.DotSize,
			entry.ID, ts, html.EscapeString(entry.Label),
			entry.ID,
			entry.ID))
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

// toThumbnail scales a stored entry PNG down to the configured thumbnail width.
func (service *FrontendService) toThumbnail(imageBytes []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode entry image: %w", err)
	}
	scaled := markers.ScaleToWidth(img, service.config.ThumbnailWidth)
	thumbnail, err := markers.EncodePNG(scaled)
	if err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail: %w", err)
	}
	return thumbnail, nil
}

// cursorFromParams reads the cursor position from query or form values and
// clamps it into the base image bounds.
func (service *FrontendService) cursorFromParams(ctx echo.Context) markers.Point {
	bounds := service.coreService.BaseImage().Bounds()
	x := service.intParam(ctx, "x", bounds.Dx()/2)
	y := service.intParam(ctx, "y", bounds.Dy()/2)

	if x < 0 {
		x = 0
	}
	if x > bounds.Dx()-1 {
		x = bounds.Dx() - 1
	}
	if y < 0 {
		y = 0
	}
	if y > bounds.Dy()-1 {
		y = bounds.Dy() - 1
	}
	return markers.Point{X: x, Y: y}
}

func (service *FrontendService) dotSizeFromParam(raw string) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return service.config.DefaultDotSize
	}
	return service.coreService.ClampDotSize(size)
}

func (service *FrontendService) intParam(ctx echo.Context, name string, defaultValue int) int {
	raw := ctx.FormValue(name)
	if raw == "" {
		raw = ctx.QueryParam(name)
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue
	}
	return value
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) timestampNanoStr() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
