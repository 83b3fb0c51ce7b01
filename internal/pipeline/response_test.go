package pipeline

import (
	"testing"
	"time"

	"vibetube/internal/models"
)

func TestWeekStartLabel(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		// 2026-08-17 is a Monday.
		{"Monday", time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC), "08/17/26"},
		{"MidWeek", time.Date(2026, 8, 19, 23, 59, 0, 0, time.UTC), "08/17/26"},
		{"Sunday", time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), "08/17/26"},
		{"NextMonday", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), "08/24/26"},
		{"YearBoundary", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "12/29/25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStartLabel(tt.date); got != tt.expected {
				t.Errorf("WeekStartLabel(%v) = %q, want %q", tt.date, got, tt.expected)
			}
		})
	}
}

func TestAssembleGrouping(t *testing.T) {
	// Three videos across two ISO weeks; grouping follows sharedAt.
	older := time.Date(2026, 8, 11, 9, 0, 0, 0, time.UTC)  // week of 08/10/26
	newerA := time.Date(2026, 8, 18, 9, 0, 0, 0, time.UTC) // week of 08/17/26
	newerB := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC) // week of 08/17/26

	published := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	records := []*models.VideoRecord{
		{ID: "aaa", SharedAt: older, Source: "theneuron.ai", PublishedAt: &published},
		{ID: "bbb", SharedAt: newerA, Source: "tldrnewsletter.com"},
		{ID: "ccc", SharedAt: newerB, Source: "theneuron.ai"},
	}

	resp := Assemble(records, 7)

	if len(resp.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(resp.Groups))
	}

	// Most recent week first.
	if resp.Groups[0].StartDate != "08/17/26" {
		t.Errorf("first group = %q, want 08/17/26", resp.Groups[0].StartDate)
	}
	if resp.Groups[0].Name != "Week of 08/17/26" {
		t.Errorf("group name = %q", resp.Groups[0].Name)
	}
	if resp.Groups[0].Count != 2 || len(resp.Groups[0].VideoIDs) != 2 {
		t.Errorf("first group has %d/%d videos, want 2", resp.Groups[0].Count, len(resp.Groups[0].VideoIDs))
	}
	if resp.Groups[1].StartDate != "08/10/26" || resp.Groups[1].Count != 1 {
		t.Errorf("second group = %+v", resp.Groups[1])
	}
	if resp.Groups[1].VideoIDs[0] != "aaa" {
		t.Errorf("second group ids = %v", resp.Groups[1].VideoIDs)
	}

	if resp.Metadata.EmailsProcessed != 7 {
		t.Errorf("emailsProcessed = %d, want 7", resp.Metadata.EmailsProcessed)
	}
	if resp.Metadata.UniqueVideos != 3 {
		t.Errorf("uniqueVideos = %d, want 3", resp.Metadata.UniqueVideos)
	}
	if len(resp.Metadata.Sources) != 2 {
		t.Errorf("sources = %v, want 2 distinct", resp.Metadata.Sources)
	}
}

func TestAssembleEmpty(t *testing.T) {
	resp := Assemble(nil, 0)

	if len(resp.Videos) != 0 {
		t.Errorf("videos = %v", resp.Videos)
	}
	if len(resp.Groups) != 0 {
		t.Errorf("groups = %v", resp.Groups)
	}
	if resp.Metadata.Sources == nil {
		t.Error("sources should be an empty list, not null")
	}
	if resp.Metadata.LastUpdated == "" {
		t.Error("lastUpdated not set")
	}
}

func TestVideoUIProjection(t *testing.T) {
	published := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	record := &models.VideoRecord{
		ID:          "dQw4w9WgXcQ",
		URL:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:       "Title",
		Channel:     "Channel",
		PublishedAt: &published,
		SharedAt:    time.Date(2026, 8, 18, 9, 0, 0, 0, time.UTC),
		Vibe:        models.VibeCoding,
		Reason:      "Matched keywords",
		Source:      "theneuron.ai",
		Metadata: models.VideoMetadata{
			DurationSec:       212,
			FormattedDuration: "3:32",
			ViewCount:         1000,
			Tags:              []string{"ai"},
		},
	}

	ui := videoUI(record)

	if ui.Group != "08/17/26" {
		t.Errorf("group = %q", ui.Group)
	}
	if ui.DurationFormatted != "3:32" {
		t.Errorf("durationFormatted = %q", ui.DurationFormatted)
	}
	if ui.PublishedAt != "2026-08-01T08:00:00Z" {
		t.Errorf("publishedAt = %q", ui.PublishedAt)
	}
	if ui.Vibe != models.VibeCoding {
		t.Errorf("vibe = %q", ui.Vibe)
	}

	bare := videoUI(&models.VideoRecord{ID: "x", SharedAt: record.SharedAt})
	if bare.DurationFormatted != "0:00" {
		t.Errorf("empty duration formatted as %q, want 0:00", bare.DurationFormatted)
	}
	if bare.PublishedAt != "" {
		t.Errorf("publishedAt = %q for record without one", bare.PublishedAt)
	}
}
