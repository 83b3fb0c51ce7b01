package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"vibetube/internal/models"
	"vibetube/shared/config"
	"vibetube/shared/youtube"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const maxResultsPerWindow = 50

// Client scans a Gmail inbox for newsletter emails. It authenticates
// with a long-lived refresh token; access tokens are minted and renewed
// by the oauth2 transport.
type Client struct {
	service     *gmailapi.Service
	senders     []string
	windowDays  int
	windowDelay time.Duration
	lookback    int
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		Scopes:       []string{gmailapi.GmailReadonlyScope},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{RefreshToken: cfg.Gmail.RefreshToken}
	httpClient := oauthConfig.Client(ctx, token)

	service, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		service:     service,
		senders:     cfg.Newsletter.Senders,
		windowDays:  cfg.Newsletter.WindowDays,
		windowDelay: time.Duration(cfg.Newsletter.WindowDelayMillis) * time.Millisecond,
		lookback:    cfg.Newsletter.LookbackWeeks,
	}, nil
}

// Scan walks the configured lookback period in fixed-size windows and
// returns every newsletter email found. Gmail caps result counts per
// query, so narrow windows are issued sequentially with a small delay
// between them; a failing window is logged and skipped, and the rest of
// the scan still accumulates.
func (c *Client) Scan(ctx context.Context) ([]*models.EmailMessage, error) {
	windows := scanWindows(time.Now(), c.lookback, c.windowDays)
	log.Printf("Starting batched fetch across %d windows...", len(windows))

	var emails []*models.EmailMessage
	for i, w := range windows {
		if i > 0 {
			select {
			case <-time.After(c.windowDelay):
			case <-ctx.Done():
				return emails, ctx.Err()
			}
		}

		batch, err := c.fetchWindow(ctx, w.from, w.to)
		if err != nil {
			log.Printf("Failed to fetch email window %d/%d: %v", i+1, len(windows), err)
			continue
		}
		emails = append(emails, batch...)
	}

	log.Printf("Total emails found: %d", len(emails))
	return emails, nil
}

type window struct {
	from, to time.Time
}

// scanWindows partitions the lookback period into count windows of
// days length each, newest first.
func scanWindows(now time.Time, count, days int) []window {
	windows := make([]window, 0, count)
	for i := 0; i < count; i++ {
		to := now.AddDate(0, 0, -i*days)
		from := to.AddDate(0, 0, -days)
		windows = append(windows, window{from: from, to: to})
	}
	return windows
}

func (c *Client) fetchWindow(ctx context.Context, from, to time.Time) ([]*models.EmailMessage, error) {
	query := buildQuery(c.senders, from, to)
	log.Printf("Fetching Gmail query: %s", query)

	resp, err := c.service.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResultsPerWindow).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var emails []*models.EmailMessage
	for _, ref := range resp.Messages {
		if ref.Id == "" {
			continue
		}

		msg, err := c.service.Users.Messages.Get("me", ref.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			log.Printf("Failed to fetch message %s: %v", ref.Id, err)
			continue
		}

		if email := parseMessage(msg); email != nil {
			emails = append(emails, email)
		}
	}

	return emails, nil
}

func buildQuery(senders []string, from, to time.Time) string {
	return fmt.Sprintf("from:(%s) after:%s before:%s",
		strings.Join(senders, " OR "),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"))
}

// parseMessage turns a raw Gmail message into an EmailMessage, pulling
// the headers we care about and the decoded text content. A message
// missing its expected parts yields nil rather than an error; one
// malformed email never blocks a scan.
func parseMessage(msg *gmailapi.Message) *models.EmailMessage {
	if msg == nil || msg.Payload == nil {
		return nil
	}

	var subject, from string
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			subject = h.Value
		case "From":
			from = h.Value
		}
	}

	content := extractContent(msg.Payload)

	return &models.EmailMessage{
		ID:          msg.Id,
		Sender:      from,
		Subject:     subject,
		Date:        time.UnixMilli(msg.InternalDate),
		Content:     content,
		YouTubeURLs: youtube.ExtractVideoURLs(content),
	}
}

// extractContent concatenates every text part of a (possibly nested)
// multipart payload, base64-decoded.
func extractContent(part *gmailapi.MessagePart) string {
	var sb strings.Builder

	if part.Body != nil && part.Body.Data != "" {
		sb.WriteString(decodeBody(part.Body.Data))
	}

	for _, p := range part.Parts {
		if p.MimeType == "text/html" || p.MimeType == "text/plain" {
			if p.Body != nil && p.Body.Data != "" {
				sb.WriteString(decodeBody(p.Body.Data))
			}
		}
		if len(p.Parts) > 0 {
			sb.WriteString(extractContent(p))
		}
	}

	return sb.String()
}

// decodeBody handles the URL-safe base64 Gmail uses, with and without
// padding.
func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.StdEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}
