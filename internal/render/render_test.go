package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/quickfix/internal/domain/valueobject"
	"github.com/ignatzorin/quickfix/internal/models"
)

func TestFormatDeadline(t *testing.T) {
	tests := []struct {
		raw       string
		wantDate  string
		wantClock string
	}{
		{"2025-06-01T00:00:00", "01-06-2025", ""},
		{"2025-06-01T14:30:00", "01-06-2025", "14:30"},
		{"2025-06-01", "01-06-2025", ""},
		{"2025-06-01T09:05", "01-06-2025", "09:05"},
		{"2025-06-01T14:30:00+00:00", "01-06-2025", "14:30"},
		{"", NoDeadlineShort, ""},
		{"tomorrow", InvalidDate, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			date, clock := FormatDeadline(tt.raw)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantClock, clock)
		})
	}
}

func TestFormatDeadlineLong(t *testing.T) {
	assert.Equal(t, NoDeadlineLong, FormatDeadlineLong(""))
	assert.Equal(t, "01-06-2025", FormatDeadlineLong("2025-06-01T00:00:00"))
	assert.Equal(t, "01-06-2025 14:30", FormatDeadlineLong("2025-06-01T14:30:00"))
	assert.Equal(t, InvalidDate, FormatDeadlineLong("31/12/2025"))
}

func TestWireDeadline(t *testing.T) {
	ts := time.Date(2025, 6, 1, 14, 30, 59, 0, time.UTC)
	assert.Equal(t, "2025-06-01T14:30:00", WireDeadline(ts))
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "€", StatusIcon(valueobject.StatusPaid))
	assert.Equal(t, StatusIcon(valueobject.StatusPending), StatusIcon(valueobject.StatusUnknown))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Started", StatusText("STARTED"))
	assert.Equal(t, "archived", StatusText("archived"))
	assert.Equal(t, "Unknown", StatusText(""))
}

func TestRequestRow(t *testing.T) {
	row := RequestRow(models.Request{
		ID: 3, Title: "Paint fence", Type: "Painting", Deadline: "2025-06-01T14:30:00",
		Price: 0, Status: "started", DistanceKm: 12,
	})
	assert.Equal(t, "Free", row.Price)
	assert.Equal(t, "12 km", row.Distance)
	assert.Equal(t, "▶", row.Icon)
	assert.Equal(t, "14:30", row.Time)

	row = ServiceRow(models.Service{Price: 25, Status: "closed"})
	assert.Equal(t, "25.00 €", row.Price)
	assert.Equal(t, NoDeadlineShort, row.Date)
}
