package search

import (
	"sort"
	"strconv"
	"strings"

	"coursetutor/internal/model"
)

const (
	// maxSnippetLen caps citation snippets; longer sentences are cut and
	// suffixed with an ellipsis.
	maxSnippetLen = 200
	// maxSentences bounds how many leading sentences of a page are scanned
	// for the best-matching snippet.
	maxSentences = 10
)

// FindCitations scores every page of a document against the query by
// distinct-keyword overlap and returns the topK best pages, each with the
// most relevant sentence from its first ten as the snippet.
//
// This is a deliberately cheap lexical ranker: query words are matched by
// lowercase substring containment, with no stemming or stop-word removal.
func FindCitations(query string, pages map[string]string, topK int) []model.Citation {
	queryWords := uniqueWords(query)
	if len(queryWords) == 0 {
		return nil
	}

	// Pages are visited in page order so equal-relevance ties resolve the
	// same way on every call.
	var citations []model.Citation
	for _, pageKey := range sortedPageKeys(pages) {
		text := pages[pageKey]
		matches := countMatches(queryWords, text)
		if matches == 0 {
			continue
		}

		snippet := bestSentence(queryWords, text)
		if snippet == "" {
			// The page matched as a whole but no single leading sentence
			// did; fall back to the start of the page rather than dropping
			// a matching page.
			snippet = strings.TrimSpace(text)
		}

		citations = append(citations, model.Citation{
			Page:      parsePage(pageKey),
			Snippet:   truncate(snippet, maxSnippetLen),
			Relevance: matches,
		})
	}

	// Stable keeps first-seen order among equal relevance scores.
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Relevance > citations[j].Relevance
	})
	if len(citations) > topK {
		citations = citations[:topK]
	}
	return citations
}

// SortedPageKeys orders page map keys numerically where possible, so "10"
// sorts after "2"; non-numeric keys follow, lexicographically.
func SortedPageKeys(pages map[string]string) []string {
	return sortedPageKeys(pages)
}

func sortedPageKeys(pages map[string]string) []string {
	keys := make([]string, 0, len(pages))
	for k := range pages {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iErr := strconv.Atoi(keys[i])
		nj, jErr := strconv.Atoi(keys[j])
		switch {
		case iErr == nil && jErr == nil:
			return ni < nj
		case iErr == nil:
			return true
		case jErr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func uniqueWords(query string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = struct{}{}
	}
	return words
}

// countMatches returns how many distinct query words occur as substrings
// anywhere in text.
func countMatches(queryWords map[string]struct{}, text string) int {
	lower := strings.ToLower(text)
	n := 0
	for w := range queryWords {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

// bestSentence scans the first maxSentences period-delimited sentences and
// returns the one containing the most distinct query words, or "" when none
// of them contains any. Ties keep the earlier sentence.
func bestSentence(queryWords map[string]struct{}, text string) string {
	sentences := strings.Split(text, ".")
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}

	best := ""
	bestMatches := 0
	for _, sentence := range sentences {
		if m := countMatches(queryWords, sentence); m > bestMatches {
			bestMatches = m
			best = strings.TrimSpace(sentence)
		}
	}
	return best
}

func parsePage(key string) any {
	if n, err := strconv.Atoi(key); err == nil {
		return n
	}
	return key
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
