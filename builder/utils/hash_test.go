package utils

import (
	"strings"
	"testing"
)

func TestHashBytes(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		same bool
	}{
		{"identical content", []byte("truck"), []byte("truck"), true},
		{"different content", []byte("truck"), []byte("trucks"), false},
		{"empty content", []byte{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ha, hb := HashBytes(tt.a), HashBytes(tt.b)
			if len(ha) != 64 {
				t.Errorf("hash length = %d, want 64", len(ha))
			}
			if (ha == hb) != tt.same {
				t.Errorf("HashBytes(%q)==HashBytes(%q) is %v, want %v", tt.a, tt.b, ha == hb, tt.same)
			}
		})
	}
}

func TestHashReader_MatchesHashBytes(t *testing.T) {
	content := strings.Repeat("freight ", 10000)

	got, err := HashReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("HashReader() failed: %v", err)
	}
	if want := HashBytes([]byte(content)); got != want {
		t.Errorf("HashReader = %s, want %s", got, want)
	}
}
