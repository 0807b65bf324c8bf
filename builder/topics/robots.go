package topics

import (
	"context"
	"io"
	"net/http"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/temoto/robotstxt"
)

// RobotsChecker answers robots.txt questions, caching one file per host.
type RobotsChecker struct {
	client *http.Client
	agent  string
	cache  *lru.Cache[string, *robotstxt.RobotsData]
}

func NewRobotsChecker(client *http.Client, agent string, size int) *RobotsChecker {
	if size <= 0 {
		size = 64
	}
	cache, _ := lru.New[string, *robotstxt.RobotsData](size)
	return &RobotsChecker{client: client, agent: agent, cache: cache}
}

// Allowed reports whether the user agent may fetch rawURL. An unreachable
// robots.txt allows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	key := u.Scheme + "://" + u.Host

	data, ok := r.cache.Get(key)
	if !ok {
		data = r.fetch(ctx, key+"/robots.txt")
		r.cache.Add(key, data)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.agent)
}

func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	allowAll, _ := robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return allowAll
	}
	req.Header.Set("User-Agent", r.agent)
	resp, err := r.client.Do(req)
	if err != nil {
		return allowAll
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return allowAll
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return allowAll
	}
	return data
}
