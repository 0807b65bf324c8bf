// defines the data structures shared by the pipeline stages
package models

import (
	"strings"
	"time"
)

// Topic is a candidate subject for one generated post.
// Title is the only required field; NewTopic fills the rest.
type Topic struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Relevance string `json:"relevance"`
	Category  string `json:"category,omitempty"`
}

// NewTopic builds a Topic with absent fields defaulted.
func NewTopic(title, summary, relevance, category string) Topic {
	t := Topic{
		Title:     strings.TrimSpace(title),
		Summary:   strings.TrimSpace(summary),
		Relevance: strings.TrimSpace(relevance),
		Category:  strings.TrimSpace(category),
	}
	if t.Summary == "" {
		t.Summary = t.Title
	}
	if t.Relevance == "" {
		t.Relevance = "General industry interest"
	}
	return t
}

// Valid reports whether the topic carries a usable title.
func (t Topic) Valid() bool {
	return strings.TrimSpace(t.Title) != ""
}

// Meta holds the SEO fields of a post.
type Meta struct {
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Author is one entry of the static author table.
type Author struct {
	Name     string `json:"name" yaml:"name"`
	Position string `json:"position" yaml:"position"`
	Bio      string `json:"bio" yaml:"bio"`
	Image    string `json:"image" yaml:"image"`
}

// Post is the durable unit of content, keyed by ID.
type Post struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Excerpt        string   `json:"excerpt"`
	Date           string   `json:"date"`
	Category       string   `json:"category"`
	Author         string   `json:"author"`
	AuthorPosition string   `json:"author_position"`
	AuthorBio      string   `json:"author_bio"`
	AuthorImage    string   `json:"author_image"`
	ReadTime       string   `json:"read_time"`
	Content        string   `json:"content"`
	Image          string   `json:"image"`
	Meta           Meta     `json:"meta"`
	Tags           []string `json:"tags"`
	Fallback       []string `json:"fallback,omitempty"` // generated fields replaced by derived values
}

// IndexEntry is the summary of a post stored in index.json.
type IndexEntry struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Author   string `json:"author"`
	ReadTime string `json:"read_time"`
	Image    string `json:"image"`
}

// Entry returns the index summary of the post.
func (p *Post) Entry() IndexEntry {
	return IndexEntry{
		ID:       p.ID,
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Date:     p.Date,
		Category: p.Category,
		Author:   p.Author,
		ReadTime: p.ReadTime,
		Image:    p.Image,
	}
}

// SetAuthor copies the author table entry onto the post.
func (p *Post) SetAuthor(a Author) {
	p.Author = a.Name
	p.AuthorPosition = a.Position
	p.AuthorBio = a.Bio
	p.AuthorImage = a.Image
}

// Expansion holds the fields produced by the content generator for one topic.
type Expansion struct {
	Title    string
	Meta     Meta
	Content  string
	Degraded []string // names of fields that fell back to a derived value
}

// DateLayout is the display format of Post.Date.
const DateLayout = "January 02, 2006"

// FormatDate renders t in the post date format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Outcome classifies a whole run.
type Outcome string

const (
	OutcomePublished    Outcome = "published"
	OutcomeNotPublished Outcome = "generated-not-published"
	OutcomeNoContent    Outcome = "no-content"
)

// Summary is the result of one pipeline run.
type Summary struct {
	RunID     string
	Topics    int
	Posts     []Post
	Skipped   []string // topic titles abandoned after a local I/O error
	Published bool
	Uploaded  int
	Failed    int
	Outcome   Outcome
	Duration  time.Duration
}

// Artifact is one local file handed to the publisher. Image artifacts go to
// the remote image directory, everything else to the remote root.
type Artifact struct {
	Path  string // local path on the content filesystem
	Name  string // base name used remotely
	Image bool
}
