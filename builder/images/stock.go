package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// StockTier searches the stock photo API for the topic title and keeps the
// first hit. The photo is copied locally when a Fetcher is set, otherwise
// its URL is used directly.
type StockTier struct {
	BaseURL   string
	AccessKey string
	Client    *http.Client
	Fetcher   *Fetcher
	Logger    *slog.Logger
}

type stockResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
			Full    string `json:"full"`
		} `json:"urls"`
	} `json:"results"`
}

func (s *StockTier) Name() string { return "stock" }

func (s *StockTier) Attempt(ctx context.Context, topic models.Topic, postID int64) (string, error) {
	if s.AccessKey == "" {
		return "", fmt.Errorf("stock: no access key")
	}

	photo, err := s.search(ctx, StockQuery(topic.Title))
	if err != nil {
		return "", err
	}

	if s.Fetcher == nil {
		return photo, nil
	}
	data, _, err := s.Fetcher.Download(ctx, photo)
	if err == nil {
		var ref string
		if ref, err = s.Fetcher.Persist(postID, data); err == nil {
			return ref, nil
		}
	}
	if s.Logger != nil {
		s.Logger.Warn("stock photo not copied locally, linking remote", "url", photo, "error", err)
	}
	return photo, nil
}

func (s *StockTier) search(ctx context.Context, query string) (string, error) {
	u := strings.TrimSuffix(s.BaseURL, "/") + "/search/photos?" + url.Values{
		"query":       {query},
		"per_page":    {"1"},
		"orientation": {"landscape"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Client-ID "+s.AccessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("stock: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("stock: search returned %d", resp.StatusCode)
	}

	var out stockResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("stock: invalid response: %w", err)
	}
	for _, r := range out.Results {
		if r.URLs.Regular != "" {
			return r.URLs.Regular, nil
		}
		if r.URLs.Full != "" {
			return r.URLs.Full, nil
		}
	}
	return "", ErrNoImage
}

// StockQuery is the search phrase for a title: its first three words plus
// the domain terms.
func StockQuery(title string) string {
	words := strings.Fields(strings.ToLower(title))
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(append(words, "logistics", "truck"), " ")
}
