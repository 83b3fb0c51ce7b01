package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"vibetube/internal/models"
	"vibetube/shared/youtube"
)

// MailScanner supplies newsletter emails for the lookback period.
type MailScanner interface {
	Scan(ctx context.Context) ([]*models.EmailMessage, error)
}

// MetadataProvider resolves video metadata for a batch of ids,
// omitting ids it cannot resolve.
type MetadataProvider interface {
	FetchMetadata(ctx context.Context, ids []string) ([]*models.VideoInfo, error)
}

// TranscriptProvider fetches a transcript for one video, best effort.
type TranscriptProvider interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// VideoClassifier assigns a vibe to one video. It must always return a
// classification.
type VideoClassifier interface {
	Classify(ctx context.Context, title, description string, tags []string, transcript string) *models.Classification
}

// VideoStore is the slice of the store the pipeline needs.
type VideoStore interface {
	LoadAll(ctx context.Context) ([]*models.VideoRecord, error)
	UpsertBatch(ctx context.Context, records []*models.VideoRecord) error
}

// Pipeline runs one ingestion pass: self-heal, discovery, enrichment,
// classification, persistence, response assembly.
type Pipeline struct {
	scanner     MailScanner
	metadata    MetadataProvider
	transcripts TranscriptProvider
	classifier  VideoClassifier
	store       VideoStore
	workers     int
}

func New(scanner MailScanner, metadata MetadataProvider, transcripts TranscriptProvider, classifier VideoClassifier, store VideoStore, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		scanner:     scanner,
		metadata:    metadata,
		transcripts: transcripts,
		classifier:  classifier,
		store:       store,
		workers:     workers,
	}
}

// Run executes one ingestion pass and returns the assembled feed. When
// the store already has records and refresh is false, the cached data
// is returned directly and no external provider is contacted.
func (p *Pipeline) Run(ctx context.Context, refresh bool) (*models.FeedResponse, error) {
	records, err := p.store.LoadAll(ctx)
	if err != nil {
		// A broken store on refresh is survivable: discovery starts
		// from an empty cache and the next run retries.
		log.Printf("Error loading videos from store, starting fresh cache: %v", err)
		if !refresh {
			return nil, fmt.Errorf("failed to load videos: %w", err)
		}
		records = nil
	}
	log.Printf("Loaded %d videos from store", len(records))

	if !refresh && len(records) > 0 {
		log.Println("Returning cached data (fast path)")
		return Assemble(records, 0), nil
	}

	p.selfHeal(ctx, records)

	knownIDs := make(map[string]bool, len(records))
	knownVibes := make(map[string]models.Classification, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		knownIDs[r.ID] = true
		if r.Vibe != "" {
			knownVibes[r.ID] = models.Classification{Vibe: r.Vibe, Reason: r.Reason}
		}
	}

	emails, err := p.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan mailbox: %w", err)
	}

	candidates := discoverCandidates(emails, knownIDs)
	log.Printf("Found %d unique new videos from %d emails", len(candidates), len(emails))

	newRecords := p.enrich(ctx, candidates, knownVibes)

	if len(newRecords) > 0 {
		if err := p.store.UpsertBatch(ctx, newRecords); err != nil {
			// Best-effort durability: the response still carries what
			// was computed, and the next run rediscovers the ids.
			log.Printf("Failed to upsert %d new videos: %v", len(newRecords), err)
		} else {
			log.Printf("Upserted %d new videos", len(newRecords))
		}
	}

	return Assemble(append(records, newRecords...), len(emails)), nil
}

// selfHeal refreshes metadata for records that are still incomplete.
// Records the provider cannot resolve stay incomplete; that is not an
// error.
func (p *Pipeline) selfHeal(ctx context.Context, records []*models.VideoRecord) {
	byID := make(map[string]*models.VideoRecord, len(records))
	var incompleteIDs []string
	for _, r := range records {
		if r.IsIncomplete() {
			byID[r.ID] = r
			incompleteIDs = append(incompleteIDs, r.ID)
		}
	}

	if len(incompleteIDs) == 0 {
		return
	}

	log.Printf("Self-healing: refreshing metadata for %d incomplete videos...", len(incompleteIDs))

	infos, err := p.metadata.FetchMetadata(ctx, incompleteIDs)
	if err != nil {
		log.Printf("Self-heal metadata fetch failed: %v", err)
		return
	}

	var healed []*models.VideoRecord
	for _, info := range infos {
		record, ok := byID[info.ID]
		if !ok {
			continue
		}
		applyMetadata(record, info)
		healed = append(healed, record)
	}

	if len(healed) == 0 {
		return
	}

	if err := p.store.UpsertBatch(ctx, healed); err != nil {
		log.Printf("Failed to persist %d healed videos: %v", len(healed), err)
		return
	}
	log.Printf("Healed %d videos", len(healed))
}

// applyMetadata overwrites the refreshable fields of a record with
// fresh provider data. The transcript and classification are left
// alone.
func applyMetadata(record *models.VideoRecord, info *models.VideoInfo) {
	record.Title = info.Title
	record.Description = info.Description
	record.Channel = info.ChannelTitle
	record.PublishedAt = info.PublishedAt

	record.Metadata.ChannelID = info.ChannelID
	record.Metadata.Thumbnails = info.Thumbnails
	record.Metadata.Tags = info.Tags
	record.Metadata.DurationSec = info.DurationSec
	record.Metadata.FormattedDuration = youtube.FormatDuration(info.DurationSec)
	record.Metadata.ViewCount = info.ViewCount
	record.Metadata.LikeCount = info.LikeCount
	record.Metadata.CommentCount = info.CommentCount
	record.Metadata.CategoryID = info.CategoryID
	record.Metadata.DefaultLanguage = info.DefaultLanguage
	record.Metadata.LiveBroadcastContent = info.LiveBroadcastContent
}

// candidate is a newly discovered video reference within one run.
type candidate struct {
	id       string
	url      string
	source   string
	sharedAt time.Time
}

// discoverCandidates extracts video ids from the scanned emails,
// dropping ids the store already knows and deduplicating within the
// run. The first email to mention an id supplies its sender and
// timestamp.
func discoverCandidates(emails []*models.EmailMessage, knownIDs map[string]bool) []candidate {
	var candidates []candidate
	seen := make(map[string]bool)

	for _, email := range emails {
		for _, url := range email.YouTubeURLs {
			id := youtube.ExtractVideoID(url)
			if id == "" || knownIDs[id] || seen[id] {
				continue
			}
			seen[id] = true
			candidates = append(candidates, candidate{
				id:       id,
				url:      url,
				source:   email.Sender,
				sharedAt: email.Date,
			})
		}
	}

	return candidates
}

// enrich builds a record for every candidate: metadata, transcript, and
// classification for resolvable ids, placeholder records otherwise.
// Candidates are processed concurrently under a worker cap; each slot
// of the result slice belongs to exactly one candidate, so a failure in
// one never affects another.
func (p *Pipeline) enrich(ctx context.Context, candidates []candidate, knownVibes map[string]models.Classification) []*models.VideoRecord {
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}

	log.Printf("Fetching metadata for %d new videos...", len(ids))
	infos, err := p.metadata.FetchMetadata(ctx, ids)
	if err != nil {
		log.Printf("Metadata fetch for new videos failed: %v", err)
	}

	infoByID := make(map[string]*models.VideoInfo, len(infos))
	for _, info := range infos {
		infoByID[info.ID] = info
	}

	results := make([]*models.VideoRecord, len(candidates))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = p.buildRecord(ctx, cand, infoByID[cand.id], knownVibes)
		}(i, cand)
	}
	wg.Wait()

	records := make([]*models.VideoRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}
	return records
}

func (p *Pipeline) buildRecord(ctx context.Context, cand candidate, info *models.VideoInfo, knownVibes map[string]models.Classification) *models.VideoRecord {
	if info == nil {
		return models.NewPlaceholderRecord(cand.id, cand.url, cand.source, cand.sharedAt)
	}

	record := &models.VideoRecord{
		ID:       cand.id,
		URL:      cand.url,
		SharedAt: cand.sharedAt,
		Source:   cand.source,
	}
	applyMetadata(record, info)

	// A classification from a previous partial run is reused verbatim;
	// the transcript fetch and the model call are both skipped then.
	if cached, ok := knownVibes[cand.id]; ok {
		record.Vibe = cached.Vibe
		record.Reason = cached.Reason
		return record
	}

	log.Printf("[Transcript] Fetching for: %q", shortTitle(info.Title))
	transcript, err := p.transcripts.Fetch(ctx, cand.id)
	if err != nil {
		if errors.Is(err, youtube.ErrNoTranscript) {
			log.Printf("No transcript for %s", cand.id)
		} else {
			log.Printf("Transcript fetch failed for %s: %v", cand.id, err)
		}
		transcript = ""
	}
	record.Metadata.Transcript = transcript

	log.Printf("[Classifier] Classifying: %q", shortTitle(info.Title))
	classification := p.classifier.Classify(ctx, info.Title, info.Description, info.Tags, transcript)
	record.Vibe = classification.Vibe
	record.Reason = classification.Reason

	return record
}

func shortTitle(title string) string {
	if len(title) > 30 {
		return title[:30] + "..."
	}
	return title
}
