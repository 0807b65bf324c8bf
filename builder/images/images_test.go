package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Singh-26/autopost/builder/cache"
	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/llm"
	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/storage"
	"github.com/Kush-Singh-26/autopost/builder/testutil"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

type fixture struct {
	fs      afero.Fs
	store   *storage.Local
	cache   *cache.Manager
	fetcher *Fetcher
}

func newFixture(t *testing.T, cfg config.ImageConfig) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := storage.NewLocal(fs, "blog-posts", utils.DiscardLogger())
	m, cleanup := testutil.CreateTestCache(t)
	t.Cleanup(cleanup)
	return &fixture{
		fs:      fs,
		store:   store,
		cache:   m,
		fetcher: NewFetcher(http.DefaultClient, m, store, cfg, utils.DiscardLogger()),
	}
}

func imageConfig() config.ImageConfig {
	return config.ImageConfig{MaxWidth: 1600, Quality: 80, MaxBytes: 1 << 20}
}

// imageServer serves a PNG at /img.png, text at /text and counts requests.
func imageServer(t *testing.T, png []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/img.png":
			_, _ = w.Write(png)
		case "/text":
			_, _ = w.Write([]byte("definitely not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

type failingTier struct{ name string }

func (f failingTier) Name() string { return f.name }
func (f failingTier) Attempt(context.Context, models.Topic, int64) (string, error) {
	return "", errors.New("boom")
}

type emptyTier struct{}

func (emptyTier) Name() string { return "empty" }
func (emptyTier) Attempt(context.Context, models.Topic, int64) (string, error) {
	return "", nil
}

func TestResolver_NeverEmpty(t *testing.T) {
	r := NewResolver([]Tier{failingTier{"a"}, emptyTier{}}, nil, utils.DiscardLogger())

	topics := []models.Topic{
		{Title: "Anything"},
		{Title: ""},
		models.NewTopic("Cold Chain Growth", "", "", ""),
	}
	for _, topic := range topics {
		res := r.Resolve(context.Background(), topic, 1)
		assert.NotEmpty(t, res.Ref)
		assert.Equal(t, "curated", res.Tier)
	}
}

func TestResolver_CancelledContextFallsToCurated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := testutil.NewFakeGenerator()
	f := newFixture(t, imageConfig())
	r := NewResolver([]Tier{&GeneratedTier{Gen: fake, Fetcher: f.fetcher}}, nil, utils.DiscardLogger())

	res := r.Resolve(ctx, models.NewTopic("Ports", "", "", ""), 1)
	assert.Equal(t, DefaultImage, res.Ref)
	assert.Empty(t, fake.Calls())
}

func TestCuratedTier_Pick(t *testing.T) {
	c := NewCuratedTier(config.DefaultConfig().CuratedImages, "https://example.com/default.jpg")

	tests := []struct {
		name  string
		topic models.Topic
		want  string
	}{
		{
			name:  "longest keyword wins",
			topic: models.NewTopic("Electric Truck Adoption in Trucking", "", "", ""),
			want:  "https://images.unsplash.com/photo-1611858246382-da4877c6476d?ixlib=rb-4.0.3",
		},
		{
			name:  "summary is searched",
			topic: models.NewTopic("Q3 Outlook", "Warehouse vacancy keeps rising", "", ""),
			want:  "https://images.unsplash.com/photo-1591453089816-0fbb971b454c?ixlib=rb-4.0.3",
		},
		{
			name:  "no match uses the default",
			topic: models.NewTopic("Quarterly Outlook", "", "", ""),
			want:  "https://example.com/default.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Pick(tt.topic))
		})
	}

	assert.Equal(t, DefaultImage, NewCuratedTier(nil, " ").Pick(models.Topic{}))
}

func TestGeneratedTier_DownloadsAndPersists(t *testing.T) {
	png := testutil.PNG(64, 32)
	srv, _ := imageServer(t, png)
	f := newFixture(t, imageConfig())

	fake := testutil.NewFakeGenerator().
		OnComplete("header image", "A truck at dawn on an empty interstate", nil).
		OnImage("truck at dawn", &llm.Image{URL: srv.URL + "/img.png"}, nil)

	tier := &GeneratedTier{Gen: fake, Fetcher: f.fetcher, Logger: utils.DiscardLogger()}
	ref, err := tier.Attempt(context.Background(), models.NewTopic("Night Driving", "", "", ""), 1700000000)
	require.NoError(t, err)

	assert.Equal(t, "images/1700000000.png", ref)
	testutil.AssertFileContent(t, f.fs, "blog-posts/images/1700000000.png", png)

	rec, data, err := f.cache.LookupImage(srv.URL + "/img.png")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "image/png", rec.MIME)
	assert.Equal(t, png, data)
}

func TestGeneratedTier_InlineDataAndFallbackPrompt(t *testing.T) {
	png := testutil.PNG(16, 16)
	f := newFixture(t, imageConfig())

	fake := testutil.NewFakeGenerator().
		OnComplete("header image", "", errors.New("quota")).
		OnImage("Cold Chain", &llm.Image{Data: png}, nil)

	tier := &GeneratedTier{Gen: fake, Fetcher: f.fetcher}
	ref, err := tier.Attempt(context.Background(), models.NewTopic("Cold Chain", "", "", ""), 42)
	require.NoError(t, err)
	assert.Equal(t, "images/42.png", ref)
}

func TestGeneratedTier_ImageFailure(t *testing.T) {
	f := newFixture(t, imageConfig())
	fake := testutil.NewFakeGenerator().OnComplete("", "prompt", nil)

	tier := &GeneratedTier{Gen: fake, Fetcher: f.fetcher}
	_, err := tier.Attempt(context.Background(), models.NewTopic("X", "", "", ""), 1)
	assert.ErrorIs(t, err, testutil.ErrNotScripted)
}

func TestFetcher_Download(t *testing.T) {
	png := testutil.PNG(8, 8)
	srv, hits := imageServer(t, png)
	f := newFixture(t, imageConfig())
	ctx := context.Background()

	data, mime, err := f.fetcher.Download(ctx, srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, png, data)

	// Second call is served from the cache
	_, _, err = f.fetcher.Download(ctx, srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, _, err = f.fetcher.Download(ctx, srv.URL+"/text")
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, _, err = f.fetcher.Download(ctx, srv.URL+"/missing")
	assert.Error(t, err)

	_, _, err = f.fetcher.Download(ctx, "")
	assert.Error(t, err)
}

func TestFetcher_DownloadTooLarge(t *testing.T) {
	png := testutil.PNG(256, 256)
	srv, _ := imageServer(t, png)
	cfg := imageConfig()
	cfg.MaxBytes = 100
	f := newFixture(t, cfg)

	_, _, err := f.fetcher.Download(context.Background(), srv.URL+"/img.png")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetcher_PersistResizes(t *testing.T) {
	cfg := imageConfig()
	cfg.MaxWidth = 320
	f := newFixture(t, cfg)

	ref, err := f.fetcher.Persist(7, testutil.PNG(640, 100))
	require.NoError(t, err)
	assert.Equal(t, "images/7.png", ref)

	data, err := afero.ReadFile(f.fs, "blog-posts/images/7.png")
	require.NoError(t, err)
	img, err := decodeForTest(data)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestFetcher_PersistWebP(t *testing.T) {
	cfg := imageConfig()
	cfg.WebP = true
	f := newFixture(t, cfg)

	ref, err := f.fetcher.Persist(9, testutil.PNG(32, 32))
	require.NoError(t, err)
	assert.Equal(t, "images/9.webp", ref)
}

func TestFetcher_PersistRejectsNonImage(t *testing.T) {
	f := newFixture(t, imageConfig())
	_, err := f.fetcher.Persist(1, []byte("<html>nope</html>"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestStockTier(t *testing.T) {
	png := testutil.PNG(10, 10)
	var gotAuth, gotQuery string
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		if strings.Contains(gotQuery, "nothing") {
			_, _ = w.Write([]byte(`{"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"` + srv.URL + `/photo.png"}}]}`))
	})
	mux.HandleFunc("/photo.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(png)
	})

	f := newFixture(t, imageConfig())
	tier := &StockTier{BaseURL: srv.URL, AccessKey: "key", Client: srv.Client(), Fetcher: f.fetcher, Logger: utils.DiscardLogger()}

	ref, err := tier.Attempt(context.Background(), models.NewTopic("Fleet Safety Week Recap", "", "", ""), 5)
	require.NoError(t, err)
	assert.Equal(t, "images/5.png", ref)
	assert.Equal(t, "Client-ID key", gotAuth)
	assert.Equal(t, "fleet safety week logistics truck", gotQuery)

	_, err = tier.Attempt(context.Background(), models.NewTopic("nothing here", "", "", ""), 6)
	assert.ErrorIs(t, err, ErrNoImage)

	remote := &StockTier{BaseURL: srv.URL, AccessKey: "key", Client: srv.Client()}
	ref, err = remote.Attempt(context.Background(), models.NewTopic("Fleet", "", "", ""), 7)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/photo.png", ref)

	_, err = (&StockTier{BaseURL: srv.URL, Client: srv.Client()}).Attempt(context.Background(), models.Topic{Title: "x"}, 8)
	assert.Error(t, err)
}

func TestDefaultResolver_FallsThroughToCurated(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Stock.AccessKey = ""
	f := newFixture(t, imageConfig())

	r := NewDefaultResolver(cfg, testutil.NewFakeGenerator(), f.fetcher, utils.DiscardLogger())
	res := r.Resolve(context.Background(), models.NewTopic("Warehouse Robotics", "", "", ""), 1)

	assert.Equal(t, "curated", res.Tier)
	assert.Equal(t, "https://images.unsplash.com/photo-1591453089816-0fbb971b454c?ixlib=rb-4.0.3", res.Ref)
}
