package models

import (
	"fmt"
	"strings"
	"time"
)

// Sentinel values used when a discovered video's metadata could not be
// resolved. Records carrying them are considered incomplete and are
// retried by the self-heal pass on later runs.
const (
	PlaceholderTitlePrefix = "AI Video"
	PlaceholderChannel     = "Unknown Channel"
	PlaceholderDurationSec = 300
)

// Thumbnail is a single thumbnail variant as returned by the video API.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// VideoMetadata holds the enrichment fields persisted as a JSON blob
// alongside the video row. These fields are overwritten wholesale when
// metadata is refreshed; Transcript is fetched once and kept.
type VideoMetadata struct {
	ChannelID            string               `json:"channelId,omitempty"`
	Thumbnails           map[string]Thumbnail `json:"thumbnails,omitempty"`
	Tags                 []string             `json:"tags,omitempty"`
	DurationSec          int                  `json:"durationSec"`
	FormattedDuration    string               `json:"formattedDuration,omitempty"`
	ViewCount            int64                `json:"viewCount,omitempty"`
	LikeCount            int64                `json:"likeCount,omitempty"`
	CommentCount         int64                `json:"commentCount,omitempty"`
	CategoryID           string               `json:"categoryId,omitempty"`
	DefaultLanguage      string               `json:"defaultLanguage,omitempty"`
	LiveBroadcastContent string               `json:"liveBroadcastContent,omitempty"`
	Transcript           string               `json:"transcript,omitempty"`
}

// VideoRecord is a persisted row in the videos table, keyed by the
// YouTube video id.
type VideoRecord struct {
	ID          string
	Title       string
	Description string
	Channel     string
	URL         string
	PublishedAt *time.Time
	SharedAt    time.Time
	Vibe        string
	Reason      string
	Source      string
	Metadata    VideoMetadata
}

// IsIncomplete reports whether the record still carries placeholder or
// missing metadata and should be refreshed by the self-heal pass.
func (v *VideoRecord) IsIncomplete() bool {
	return v.Metadata.DurationSec == 0 ||
		strings.HasPrefix(v.Title, PlaceholderTitlePrefix) ||
		v.Channel == PlaceholderChannel
}

// NewPlaceholderRecord builds a degraded record for a video id whose
// metadata could not be resolved. It is persisted and shown anyway, and
// stays eligible for self-healing.
func NewPlaceholderRecord(id, url, source string, sharedAt time.Time) *VideoRecord {
	return &VideoRecord{
		ID:       id,
		Title:    fmt.Sprintf("%s %s", PlaceholderTitlePrefix, id),
		Channel:  PlaceholderChannel,
		URL:      url,
		SharedAt: sharedAt,
		Vibe:     VibeRandom,
		Reason:   "Metadata check failed",
		Source:   source,
		Metadata: VideoMetadata{
			DurationSec:       PlaceholderDurationSec,
			FormattedDuration: "5:00",
		},
	}
}

// Thumbnail returns the preferred thumbnail URL for feed display,
// falling back to the predictable ytimg URL when none was stored.
func (v *VideoRecord) Thumbnail() string {
	if t, ok := v.Metadata.Thumbnails["medium"]; ok && t.URL != "" {
		return t.URL
	}
	if t, ok := v.Metadata.Thumbnails["default"]; ok && t.URL != "" {
		return t.URL
	}
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/mqdefault.jpg", v.ID)
}

// ShareThumbnail returns the larger thumbnail used for share pages.
func (v *VideoRecord) ShareThumbnail() string {
	if t, ok := v.Metadata.Thumbnails["high"]; ok && t.URL != "" {
		return t.URL
	}
	if t, ok := v.Metadata.Thumbnails["medium"]; ok && t.URL != "" {
		return t.URL
	}
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", v.ID)
}

// VideoInfo is a normalized metadata result from the video API. It is
// ephemeral: the reconciler folds it into a VideoRecord.
type VideoInfo struct {
	ID                   string
	Title                string
	Description          string
	ChannelTitle         string
	ChannelID            string
	PublishedAt          *time.Time
	DurationSec          int
	Thumbnails           map[string]Thumbnail
	ViewCount            int64
	LikeCount            int64
	CommentCount         int64
	Tags                 []string
	CategoryID           string
	DefaultLanguage      string
	LiveBroadcastContent string
}

// EmailMessage is a parsed newsletter email. It only lives for the
// duration of one ingestion run.
type EmailMessage struct {
	ID          string
	Sender      string
	Subject     string
	Date        time.Time
	Content     string
	YouTubeURLs []string
}

// Classification is the category decision for one video.
type Classification struct {
	Vibe   string `json:"category"`
	Reason string `json:"reason"`
}
