package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoTranscript signals that a video has no caption track. Absence is
// a valid terminal state, not retried within a run.
var ErrNoTranscript = errors.New("no transcript available")

// TranscriptFetcher retrieves caption text for a video by scraping the
// caption track list off the watch page and downloading the timedtext
// document it points at. YouTube exposes no official transcript API for
// third parties, so this mirrors what the usual scraping clients do.
type TranscriptFetcher struct {
	httpClient *http.Client
	baseURL    string
}

func NewTranscriptFetcher() *TranscriptFetcher {
	return &TranscriptFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://www.youtube.com",
	}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch returns the full transcript as one whitespace-joined string.
// Any failure (no caption track, disabled captions, network error)
// surfaces as an error the caller logs and treats as absence.
func (f *TranscriptFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := f.get(ctx, fmt.Sprintf("%s/watch?v=%s", f.baseURL, videoID))
	if err != nil {
		return "", fmt.Errorf("failed to load watch page for %s: %w", videoID, err)
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", videoID, err)
	}

	track := pickCaptionTrack(tracks)

	body, err := f.get(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to download transcript for %s: %w", videoID, err)
	}

	var doc timedText
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return "", fmt.Errorf("failed to parse transcript for %s: %w", videoID, err)
	}

	var parts []string
	for _, t := range doc.Texts {
		if text := strings.TrimSpace(html.UnescapeString(t.Value)); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", ErrNoTranscript
	}

	return strings.Join(parts, " "), nil
}

func (f *TranscriptFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US,en")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// parseCaptionTracks pulls the captionTracks array out of the player
// config JSON embedded in the watch page.
func parseCaptionTracks(page string) ([]captionTrack, error) {
	const marker = `"captionTracks":`

	idx := strings.Index(page, marker)
	if idx == -1 {
		return nil, ErrNoTranscript
	}

	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	var tracks []captionTrack
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("failed to parse caption tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, ErrNoTranscript
	}

	return tracks, nil
}

// pickCaptionTrack prefers an English track and otherwise takes the
// first one listed.
func pickCaptionTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}
