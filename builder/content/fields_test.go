package content

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "first non-empty paragraph",
			body: "<h2>Intro</h2><p>  </p><p>Fleet   operators\nsave money.</p><p>Second.</p>",
			want: "Fleet operators save money.",
		},
		{
			name: "no paragraph uses all text",
			body: "<h2>Only a heading</h2>",
			want: "Only a heading",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.body))
		})
	}
}

func TestExcerpt_Long(t *testing.T) {
	body := "<p>" + strings.Repeat("a", 250) + "</p>"
	got := Excerpt(body)
	assert.Equal(t, strings.Repeat("a", 200)+"...", got)
}

func TestReadTime(t *testing.T) {
	words := func(n int) string { return "<p>" + strings.Repeat("word ", n) + "</p>" }

	assert.Equal(t, "5 min read", ReadTime(""))
	assert.Equal(t, "5 min read", ReadTime(words(300)))
	assert.Equal(t, "6 min read", ReadTime(words(1001)))
	assert.Equal(t, "8 min read", ReadTime(words(1600)))
	assert.Equal(t, "10 min read", ReadTime(words(5000)))
}

func TestTags(t *testing.T) {
	tests := []struct {
		name     string
		keywords string
		want     []string
	}{
		{"comma list", "diesel prices, fuel surcharge, fleet costs", []string{"Diesel Prices", "Fuel Surcharge", "Fleet Costs"}},
		{"numbered lines", "1. supply chain\n2) rail freight\n- \"last mile\"", []string{"Supply Chain", "Rail Freight", "Last Mile"}},
		{"duplicates dropped", "Freight, freight, FREIGHT; rail", []string{"Freight", "Rail"}},
		{"decimal kept", "1.5 ton trucks", []string{"1.5 Ton Trucks"}},
		{"empty", " , ;", []string{}},
		{"capped at seven", "a1,b2,c3,d4,e5,f6,g7,h8,i9", []string{"A1", "B2", "C3", "D4", "E5", "F6", "G7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tags(tt.keywords))
		})
	}
}

func TestPickAuthor(t *testing.T) {
	authors := []models.Author{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	rng := rand.New(rand.NewPCG(1, 2))

	seen := map[string]bool{}
	for range 50 {
		seen[PickAuthor(authors, rng).Name] = true
	}
	assert.Len(t, seen, 3)

	assert.Equal(t, "Editorial Team", PickAuthor(nil, rng).Name)
}
