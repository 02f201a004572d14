package search

import (
	"strings"
	"testing"
)

func TestFindCitationsBasic(t *testing.T) {
	pages := map[string]string{
		"1": "The cat sat on the mat. Dogs bark loudly.",
	}

	citations := FindCitations("cat mat", pages, 3)
	if len(citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(citations))
	}
	c := citations[0]
	if c.Page != 1 {
		t.Errorf("expected page 1, got %v", c.Page)
	}
	if c.Snippet != "The cat sat on the mat" {
		t.Errorf("expected snippet %q, got %q", "The cat sat on the mat", c.Snippet)
	}
	if c.Relevance != 2 {
		t.Errorf("expected relevance 2, got %d", c.Relevance)
	}
}

func TestFindCitationsRankingAndLimit(t *testing.T) {
	pages := map[string]string{
		"1": "Photosynthesis converts light. Nothing else here.",
		"2": "Photosynthesis uses light energy and chlorophyll. Plants grow.",
		"3": "Chlorophyll absorbs light for photosynthesis in energy terms.",
		"4": "Unrelated content about geology.",
	}

	citations := FindCitations("photosynthesis light energy chlorophyll", pages, 2)
	if len(citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(citations))
	}
	// Non-increasing relevance, and every citation matched at least one word.
	if citations[0].Relevance < citations[1].Relevance {
		t.Errorf("citations not sorted by relevance: %d before %d",
			citations[0].Relevance, citations[1].Relevance)
	}
	for _, c := range citations {
		if c.Relevance < 1 {
			t.Errorf("citation with zero relevance returned: %+v", c)
		}
	}
	// Pages 2 and 3 both match all four words; the tie keeps page order.
	if citations[0].Page != 2 || citations[1].Page != 3 {
		t.Errorf("expected pages [2 3], got [%v %v]", citations[0].Page, citations[1].Page)
	}
}

func TestFindCitationsNoMatches(t *testing.T) {
	pages := map[string]string{"1": "completely unrelated text."}
	if got := FindCitations("quantum entanglement", pages, 3); len(got) != 0 {
		t.Errorf("expected no citations, got %d", len(got))
	}
	if got := FindCitations("   ", pages, 3); len(got) != 0 {
		t.Errorf("expected no citations for empty query, got %d", len(got))
	}
}

// A page can match as a whole while none of its first ten sentences contains
// a query word (the match sits in sentence eleven or later). Such pages keep
// a citation with the page head as the snippet instead of being dropped.
func TestFindCitationsDefaultSnippet(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("Filler sentence without keywords. ")
	}
	b.WriteString("Here mitochondria finally appear.")

	citations := FindCitations("mitochondria", map[string]string{"7": b.String()}, 3)
	if len(citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(citations))
	}
	c := citations[0]
	if c.Page != 7 {
		t.Errorf("expected page 7, got %v", c.Page)
	}
	if !strings.HasPrefix(c.Snippet, "Filler sentence") {
		t.Errorf("expected page-head fallback snippet, got %q", c.Snippet)
	}
	if len(c.Snippet) > maxSnippetLen+3 {
		t.Errorf("snippet too long: %d chars", len(c.Snippet))
	}
}

func TestFindCitationsSnippetTruncation(t *testing.T) {
	long := "biology " + strings.Repeat("x", 300) + " end"
	citations := FindCitations("biology", map[string]string{"1": long}, 1)
	if len(citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(citations))
	}
	if !strings.HasSuffix(citations[0].Snippet, "...") {
		t.Errorf("expected ellipsis-truncated snippet, got %q", citations[0].Snippet)
	}
	if len(citations[0].Snippet) != maxSnippetLen+3 {
		t.Errorf("expected %d chars, got %d", maxSnippetLen+3, len(citations[0].Snippet))
	}
}

func TestFindCitationsNonNumericPageKey(t *testing.T) {
	citations := FindCitations("appendix", map[string]string{"A-1": "See the appendix for tables."}, 1)
	if len(citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(citations))
	}
	if citations[0].Page != "A-1" {
		t.Errorf("expected raw key %q, got %v", "A-1", citations[0].Page)
	}
}

func TestSortedPageKeys(t *testing.T) {
	pages := map[string]string{"10": "", "2": "", "1": "", "A-1": ""}
	got := SortedPageKeys(pages)
	want := []string{"1", "2", "10", "A-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted keys = %v, want %v", got, want)
		}
	}
}
