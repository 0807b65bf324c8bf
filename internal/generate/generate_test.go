package generate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		outcome models.Outcome
		want    int
	}{
		{models.OutcomePublished, 0},
		{models.OutcomeNotPublished, 2},
		{models.OutcomeNoContent, 1},
		{"", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.outcome), "outcome %q", tt.outcome)
	}
}

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name string
		sum  models.Summary
		want []string
	}{
		{
			name: "published",
			sum: models.Summary{
				Outcome:  models.OutcomePublished,
				Posts:    []models.Post{{ID: 1700000000, Title: "Diesel Prices Drop"}},
				Uploaded: 3,
			},
			want: []string{"1700000000  Diesel Prices Drop", "✅ Published 1 posts (3 files uploaded)"},
		},
		{
			name: "upload failures",
			sum: models.Summary{
				Outcome: models.OutcomeNotPublished,
				Posts:   []models.Post{{ID: 1}, {ID: 2}},
				Failed:  1,
			},
			want: []string{"Generated 2 posts, 1 files failed to upload"},
		},
		{
			name: "publishing disabled",
			sum:  models.Summary{Outcome: models.OutcomeNotPublished, Posts: []models.Post{{ID: 1}}},
			want: []string{"Generated 1 posts, not published"},
		},
		{
			name: "nothing generated",
			sum:  models.Summary{Outcome: models.OutcomeNoContent, Skipped: []string{"Port Congestion"}},
			want: []string{"Skipped: Port Congestion", "No content generated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintSummary(&buf, &tt.sum)
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}
