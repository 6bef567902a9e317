package utils

import "unicode"

// SplitText splits text into rune chunks of at most chunkSize, overlapping
// consecutive chunks by roughly overlap runes to preserve context across
// boundaries. Cuts prefer a whitespace rune near the end of the window so
// words stay intact; when no boundary is close enough the chunk is cut hard
// rather than dropping content. A non-positive chunkSize or a text shorter
// than one chunk yields the text as a single chunk.
func SplitText(text string, chunkSize int, overlap int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	total := len(runes)
	if total <= chunkSize {
		return []string{text}
	}

	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < total {
		end := start + chunkSize
		if end >= total {
			chunks = append(chunks, string(runes[start:total]))
			break
		}

		if cut := lastBoundary(runes, start, end); cut > start {
			end = cut
		}
		chunks = append(chunks, string(runes[start:end]))

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// lastBoundary scans backward from end for a whitespace rune, giving up once
// it has walked a fifth of the window. Returns end when nothing qualifies.
func lastBoundary(runes []rune, start, end int) int {
	limit := end - (end-start)/5
	for i := end; i > limit; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
