package pipeline

import (
	"sort"
	"time"

	"vibetube/internal/models"
)

const weekLabelLayout = "01/02/06"

// Assemble turns the full record set into the feed response: the
// flattened video list, the week groups (newest first), and the run
// summary. Grouping is computed from sharedAt, not publishedAt.
func Assemble(records []*models.VideoRecord, emailsProcessed int) *models.FeedResponse {
	videos := make([]models.VideoUI, 0, len(records))
	for _, r := range records {
		videos = append(videos, videoUI(r))
	}

	return &models.FeedResponse{
		Videos: videos,
		Groups: buildGroups(videos),
		Metadata: models.FeedMetadata{
			EmailsProcessed: emailsProcessed,
			UniqueVideos:    len(videos),
			LastUpdated:     time.Now().UTC().Format(time.RFC3339),
			Sources:         distinctSources(videos),
		},
	}
}

func videoUI(r *models.VideoRecord) models.VideoUI {
	ui := models.VideoUI{
		ID:                r.ID,
		URL:               r.URL,
		Title:             r.Title,
		Channel:           r.Channel,
		DurationSec:       r.Metadata.DurationSec,
		DurationFormatted: r.Metadata.FormattedDuration,
		Thumbnail:         r.Thumbnail(),
		Group:             WeekStartLabel(r.SharedAt),
		SharedAt:          r.SharedAt.Format(time.RFC3339),
		Vibe:              r.Vibe,
		Reason:            r.Reason,
		Source:            r.Source,
		Description:       r.Description,
		ViewCount:         r.Metadata.ViewCount,
		LikeCount:         r.Metadata.LikeCount,
		Tags:              r.Metadata.Tags,
		Transcript:        r.Metadata.Transcript,
	}

	if ui.DurationFormatted == "" {
		ui.DurationFormatted = "0:00"
	}
	if r.PublishedAt != nil {
		ui.PublishedAt = r.PublishedAt.Format(time.RFC3339)
	}

	return ui
}

// WeekStartLabel renders the Monday of t's week as MM/DD/YY.
func WeekStartLabel(t time.Time) string {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return monday.Format(weekLabelLayout)
}

func buildGroups(videos []models.VideoUI) []models.GroupSummary {
	var labels []string
	byLabel := make(map[string][]string)

	for _, v := range videos {
		if _, ok := byLabel[v.Group]; !ok {
			labels = append(labels, v.Group)
		}
		byLabel[v.Group] = append(byLabel[v.Group], v.ID)
	}

	sort.Slice(labels, func(i, j int) bool {
		a, _ := time.Parse(weekLabelLayout, labels[i])
		b, _ := time.Parse(weekLabelLayout, labels[j])
		return a.After(b)
	})

	groups := make([]models.GroupSummary, 0, len(labels))
	for _, label := range labels {
		ids := byLabel[label]
		groups = append(groups, models.GroupSummary{
			Name:      "Week of " + label,
			StartDate: label,
			VideoIDs:  ids,
			Count:     len(ids),
		})
	}

	return groups
}

func distinctSources(videos []models.VideoUI) []string {
	sources := []string{}
	seen := make(map[string]bool)

	for _, v := range videos {
		if v.Source == "" || seen[v.Source] {
			continue
		}
		seen[v.Source] = true
		sources = append(sources, v.Source)
	}

	return sources
}
