// Package testutil provides testing utilities and fixtures
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/models"
)

// SampleTopics returns n distinct relevant topics.
func SampleTopics(n int) []models.Topic {
	titles := []string{
		"Diesel Prices Drop for Third Straight Week",
		"Freight Rail Volumes Climb in the Midwest",
		"Port of Savannah Expands Container Capacity",
		"Electric Truck Pilots Expand Across California",
		"Carriers Brace for New Hours of Service Rules",
		"Warehouse Robotics Investment Hits Record",
		"Last-Mile Delivery Costs Keep Rising",
		"Cross-Border Trucking Delays at Laredo",
	}
	out := make([]models.Topic, 0, n)
	for i := 0; i < n; i++ {
		title := titles[i%len(titles)]
		if i >= len(titles) {
			title = title + " Update"
		}
		out = append(out, models.NewTopic(title, "Summary of "+title+" for the logistics industry.", "Matters to fleet operators", ""))
	}
	return out
}

// SamplePost returns a complete post with the given id.
func SamplePost(id int64) *models.Post {
	post := &models.Post{
		ID:       id,
		Title:    "Diesel Prices Drop for Third Straight Week",
		Excerpt:  "Fleet operators get some relief at the pump...",
		Date:     "March 02, 2026",
		Category: "Industry Trends",
		ReadTime: "5 min read",
		Content:  "<h2>Relief at the pump</h2><p>Fleet operators get some relief at the pump.</p>",
		Image:    "images/1700000000.png",
		Meta: models.Meta{
			Description: "Diesel prices fell again this week.",
			Keywords:    "diesel, fuel prices, trucking",
		},
		Tags: []string{"Diesel", "Fuel Prices", "Trucking"},
	}
	post.SetAuthor(config.DefaultConfig().Authors[0])
	return post
}

// TestConfig returns a validated-looking config suitable for unit tests:
// no network sources, no rate limiting, in-memory friendly paths.
func TestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ContentDir = "blog-posts"
	cfg.Sources = nil
	cfg.Scrape.RequestInterval = 0
	cfg.Scrape.RespectRobots = false
	cfg.LLM.APIKey = "sk-test"
	cfg.Publish.Port = 21
	return cfg
}

// PNG returns an encoded w x h image.
func PNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 120, 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// TemplateHTML is a minimal document template carrying every placeholder.
const TemplateHTML = `<!DOCTYPE html>
<html>
<head>
<title>{{POST_TITLE}} | Pro Truck Logistics</title>
<meta name="description" content="{{META_DESCRIPTION}}">
<meta name="keywords" content="{{META_KEYWORDS}}">
</head>
<body>
<article>
<span class="category">{{POST_CATEGORY}}</span>
<h1>{{POST_TITLE}}</h1>
<div class="meta">{{POST_DATE}} · {{POST_READ_TIME}}</div>
<img src="{{POST_IMAGE}}" alt="{{POST_TITLE}}">
<div class="content">{{POST_CONTENT}}</div>
<div class="tags">{{POST_TAGS}}</div>
<div class="author"><img src="{{AUTHOR_IMAGE}}" alt="{{AUTHOR_NAME}}"><h3>{{AUTHOR_NAME}}</h3><p>{{AUTHOR_POSITION}}</p><p>{{AUTHOR_BIO}}</p></div>
<div class="share"><a href="{{SHARE_FACEBOOK}}">f</a><a href="{{SHARE_TWITTER}}">t</a><a href="{{SHARE_LINKEDIN}}">in</a><a href="{{SHARE_EMAIL}}">@</a></div>
</article>
</body>
</html>
`
