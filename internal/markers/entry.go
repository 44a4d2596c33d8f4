package markers

import (
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the display format used for entry dates in the UI and CSV export.
const TimestampFormat = "2006-01-02 15:04:05"

// Entry is a saved set of markers, frozen as a rendered PNG at save time.
// The original dot coordinates are not retained; an entry cannot be re-rendered
// at a different dot size after creation.
type Entry struct {
	ID        string
	CreatedAt time.Time
	Label     string
	Image     []byte // PNG bytes
	DotSize   int
}

// NewEntry creates an immutable entry with a fresh stable ID.
func NewEntry(label string, image []byte, dotSize int) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Label:     label,
		Image:     image,
		DotSize:   dotSize,
	}
}

// Date returns the entry creation time formatted for display.
func (e *Entry) Date() string {
	return e.CreatedAt.Format(TimestampFormat)
}
