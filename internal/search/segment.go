// Package search implements the lexical grounding helpers: word-based text
// segmentation for prompt context and keyword-overlap citation search over
// extracted page text.
package search

import "strings"

// SplitWords splits text into chunks of whole whitespace-delimited words.
// Each chunk's budget is counted as len(word)+1 per word, so chunks stay at
// or under chunkSize except when a single word alone exceeds it; words are
// never split. The trailing partial accumulation is flushed as a final chunk.
func SplitWords(text string, chunkSize int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		chunks  []string
		current []string
		size    int
	)
	for _, word := range words {
		size += len(word) + 1
		if size > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			size = len(word)
			continue
		}
		current = append(current, word)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
