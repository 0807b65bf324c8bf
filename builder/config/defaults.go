package config

import (
	"time"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// DefaultConfig returns the built-in configuration for the trucking blog.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name:     "Pro Truck Logistics",
			BaseURL:  "https://www.example.com",
			Template: "blog-post-template.html",
		},
		ContentDir:  "blog-posts",
		CacheDir:    ".autopost-cache",
		PostsPerRun: 3,
		MinAccepted: 3,
		Keywords: []string{
			"logistics", "trucking", "truck", "freight", "supply chain", "transportation",
			"shipping", "fleet", "warehouse", "carrier", "delivery", "driver", "cargo",
			"diesel", "fmcsa", "port", "rail", "intermodal", "last-mile", "3pl",
		},
		Categories: []string{
			"Industry Trends", "Supply Chain", "Driver Tips", "Sustainability",
			"Technology", "Safety", "Regulations", "Fleet Management",
		},
		Authors: []models.Author{
			{
				Name:     "John Smith",
				Position: "Logistics Specialist",
				Bio:      "John has over 15 years of experience in the logistics industry, specializing in supply chain optimization and transportation management.",
				Image:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-4.0.3",
			},
			{
				Name:     "Sarah Johnson",
				Position: "Transportation Analyst",
				Bio:      "Sarah is an expert in transportation economics and regulatory compliance with a background in both private sector logistics and government oversight.",
				Image:    "https://images.unsplash.com/photo-1494790108377-be9c29b29330?ixlib=rb-4.0.3",
			},
			{
				Name:     "Michael Chen",
				Position: "Technology Director",
				Bio:      "Michael specializes in logistics technology integration, helping companies leverage AI, IoT, and blockchain solutions to optimize their supply chains.",
				Image:    "https://images.unsplash.com/photo-1560250097-0b93528c311a?ixlib=rb-4.0.3",
			},
		},
		Sources: []SourceConfig{
			{
				Name:    "Transport Topics",
				URL:     "https://www.ttnews.com/articles/logistics",
				Kind:    SourceHTML,
				Item:    "article.article-card",
				Title:   "h2",
				Summary: "div.field--name-field-deckhead",
				Limit:   5,
			},
			{
				Name:    "Logistics Management",
				URL:     "https://www.logisticsmgmt.com/topic/category/transportation",
				Kind:    SourceHTML,
				Item:    "article",
				Title:   "h2, h3",
				Summary: "p",
				Limit:   5,
			},
			{
				Name:  "FreightWaves",
				URL:   "https://www.freightwaves.com/news/feed",
				Kind:  SourceRSS,
				Limit: 5,
			},
		},
		CuratedImages: []CuratedImage{
			{Keyword: "electric truck", URL: "https://images.unsplash.com/photo-1611858246382-da4877c6476d?ixlib=rb-4.0.3"},
			{Keyword: "supply chain", URL: "https://images.unsplash.com/photo-1620066326605-44146cb883cd?ixlib=rb-4.0.3"},
			{Keyword: "warehouse", URL: "https://images.unsplash.com/photo-1591453089816-0fbb971b454c?ixlib=rb-4.0.3"},
			{Keyword: "safety", URL: "https://images.unsplash.com/photo-1577041677443-8bbdfd8cce62?ixlib=rb-4.0.3"},
			{Keyword: "driver", URL: "https://images.unsplash.com/photo-1586528116311-ad8dd3c8310d?ixlib=rb-4.0.3"},
			{Keyword: "highway", URL: "https://images.unsplash.com/photo-1494412574643-ff11b0a5c1c3?ixlib=rb-4.0.3"},
			{Keyword: "road", URL: "https://images.unsplash.com/photo-1494412574643-ff11b0a5c1c3?ixlib=rb-4.0.3"},
			{Keyword: "trucking", URL: "https://images.unsplash.com/photo-1519003722824-194d4455a60c?ixlib=rb-4.0.3"},
			{Keyword: "logistics", URL: "https://images.unsplash.com/photo-1519003722824-194d4455a60c?ixlib=rb-4.0.3"},
		},
		DefaultImage: "https://images.unsplash.com/photo-1519003722824-194d4455a60c?ixlib=rb-4.0.3",
		LLM: LLMConfig{
			BaseURL:           "https://api.openai.com/v1",
			TextModel:         "gpt-4o",
			CheapModel:        "gpt-4o-mini",
			BrowseModel:       "gpt-4o",
			ImageModel:        "dall-e-3",
			ImageSize:         "1792x1024",
			Timeout:           90 * time.Second,
			MaxRetries:        3,
			RequestsPerSecond: 2,
		},
		Stock: StockConfig{
			BaseURL: "https://api.unsplash.com",
			Timeout: 10 * time.Second,
		},
		Scrape: ScrapeConfig{
			UserAgent:       "autopost/1.0 (+https://www.example.com)",
			Timeout:         10 * time.Second,
			RequestInterval: time.Second,
			RespectRobots:   true,
		},
		Images: ImageConfig{
			MaxWidth:        1600,
			WebP:            false,
			Quality:         80,
			DownloadTimeout: 30 * time.Second,
			MaxBytes:        20 * 1024 * 1024,
		},
		Publish: PublishConfig{
			Protocol: ProtocolFTP,
			RootDir:  "/public_html/blog-posts/",
			Timeout:  30 * time.Second,
		},
		LogFormat: "text",
	}
}
