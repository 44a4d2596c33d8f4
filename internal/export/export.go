package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/jo-hoe/bodymark/internal/markers"
)

// CSVFilename is the suggested download name for the tabular summary.
const CSVFilename = "body_markers_summary.csv"

var csvHeader = []string{"Date", "Label", "Dot Size"}

// EntriesCSV serializes entries to CSV in save order. Coordinates are
// intentionally omitted; an entry's image is the only record of them.
func EntriesCSV(entries []*markers.Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, entry := range entries {
		row := []string{entry.Date(), entry.Label, strconv.Itoa(entry.DotSize)}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ImageFilename derives a filesystem-safe download name for an entry image:
// spaces in the label become underscores, colons in the timestamp become
// hyphens, and any remaining hostile characters become underscores.
func ImageFilename(entry *markers.Entry) string {
	label := strings.ReplaceAll(entry.Label, " ", "_")
	date := strings.ReplaceAll(entry.Date(), ":", "-")
	return sanitize(label+"_"+date) + ".png"
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
