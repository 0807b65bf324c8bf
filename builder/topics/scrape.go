package topics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

const maxPageBytes = 5 * 1024 * 1024

// ScrapeTier reads the configured news pages and feeds and keeps the
// relevant headlines.
type ScrapeTier struct {
	Sources   []config.SourceConfig
	Keywords  []string
	Client    *http.Client
	UserAgent string
	Limiter   *utils.HostLimiter
	Robots    *RobotsChecker // nil skips robots.txt
	Logger    *slog.Logger   // nil discards
}

func (t *ScrapeTier) Name() string { return "scrape" }

func (t *ScrapeTier) Attempt(ctx context.Context, _ int) ([]models.Topic, error) {
	logger := t.Logger
	if logger == nil {
		logger = utils.DiscardLogger()
	}

	var all []models.Topic
	var errs []error
	for _, src := range t.Sources {
		found, err := t.scrape(ctx, src)
		if err != nil {
			logger.Warn("news source failed", "source", src.Name, "url", src.URL, "error", err)
			errs = append(errs, err)
			continue
		}
		relevant := FilterRelevant(found, t.Keywords)
		logger.Debug("news source read", "source", src.Name, "found", len(found), "relevant", len(relevant))
		all = append(all, relevant...)
	}
	if len(all) == 0 {
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		return nil, ErrTierEmpty
	}
	return all, nil
}

func (t *ScrapeTier) scrape(ctx context.Context, src config.SourceConfig) ([]models.Topic, error) {
	if t.Robots != nil && !t.Robots.Allowed(ctx, src.URL) {
		return nil, fmt.Errorf("disallowed by robots.txt")
	}
	body, err := t.fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	if src.Kind == config.SourceRSS {
		return parseFeed(body, src)
	}
	return parsePage(body, src)
}

func (t *ScrapeTier) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := t.Limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", t.UserAgent)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

// parsePage applies the source's item/title/summary selectors.
func parsePage(body []byte, src config.SourceConfig) ([]models.Topic, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var out []models.Topic
	doc.Find(src.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		title := selectText(item, src.Title)
		if title == "" {
			return true
		}
		out = append(out, models.NewTopic(title, selectText(item, src.Summary), "Reported by "+src.Name, ""))
		return len(out) < src.Limit
	})
	return out, nil
}

func selectText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return collapseSpace(s.Find(selector).First().Text())
}

// parseFeed reads an RSS, Atom or JSON feed.
func parseFeed(body []byte, src config.SourceConfig) ([]models.Topic, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	strip := bluemonday.StrictPolicy()
	var out []models.Topic
	for _, item := range feed.Items {
		if len(out) >= src.Limit {
			break
		}
		title := collapseSpace(html.UnescapeString(strip.Sanitize(item.Title)))
		if title == "" {
			continue
		}
		summary := collapseSpace(html.UnescapeString(strip.Sanitize(item.Description)))
		out = append(out, models.NewTopic(title, summary, "Reported by "+src.Name, ""))
	}
	return out, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
