package search

import (
	"strings"
	"testing"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		want      []string
	}{
		{"empty", "", 100, nil},
		{"whitespace only", "  \n\t ", 100, nil},
		{"fits in one chunk", "the cat sat", 100, []string{"the cat sat"}},
		{"splits on budget", "aa bb cc dd", 6, []string{"aa bb", "cc dd"}},
		{"flushes partial tail", "aa bb cc", 6, []string{"aa bb", "cc"}},
		{"single long word kept whole", "supercalifragilistic", 5, []string{"supercalifragilistic"}},
		{"long word mid-sequence", "aa supercalifragilistic bb", 5, []string{"aa", "supercalifragilistic", "bb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWords(tt.text, tt.chunkSize)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitWords() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Chunks joined by single spaces must reproduce the original word sequence.
func TestSplitWordsRoundTrip(t *testing.T) {
	texts := []string{
		"one",
		"the quick brown fox jumps over the lazy dog",
		"a b c d e f g h i j k l m n o p",
		"mixed   whitespace\tand\nnewlines here",
	}
	for _, text := range texts {
		for _, size := range []int{1, 5, 10, 1000} {
			chunks := SplitWords(text, size)
			joined := strings.Join(chunks, " ")
			want := strings.Join(strings.Fields(text), " ")
			if joined != want {
				t.Errorf("size %d: round trip = %q, want %q", size, joined, want)
			}
		}
	}
}

func TestSplitWordsBudget(t *testing.T) {
	const size = 12
	chunks := SplitWords("alpha beta gamma delta epsilon zeta eta theta", size)
	for _, c := range chunks {
		if len(c) > size && !strings.Contains(c, " ") {
			continue // single oversized word is allowed
		}
		if len(c) > size {
			t.Errorf("multi-word chunk %q exceeds budget %d", c, size)
		}
	}
}
