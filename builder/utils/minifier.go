package utils

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

// Minifier returns the shared HTML minifier.
func Minifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
	})
	return minifier
}

// MinifyHTML minifies a document, returning the input unchanged on failure.
func MinifyHTML(doc []byte) []byte {
	out, err := Minifier().Bytes("text/html", doc)
	if err != nil {
		return doc
	}
	return out
}
