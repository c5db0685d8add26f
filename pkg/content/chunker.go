package content

import "strings"

const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 200
)

// Boundary markers in scan order. The first marker found past the window midpoint
// wins, even if a later marker sits closer to the window edge.
var boundaryMarkers = [][]rune{
	[]rune(". "),
	[]rune(".\n"),
	[]rune("? "),
	[]rune("?\n"),
	[]rune("! "),
	[]rune("!\n"),
	[]rune("\n\n"),
}

// Chunk splits text into overlapping windows of at most size characters, cutting
// after a sentence or paragraph boundary when one exists in the back half of the
// window. Returned chunks are trimmed and never empty.
func Chunk(text string, size, overlap int) []string {
	size, overlap = normalizeChunkParams(size, overlap)

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = boundaryCut(runes, start, end, size)
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

func normalizeChunkParams(size, overlap int) (int, int) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return size, overlap
}

func boundaryCut(runes []rune, start, end, size int) int {
	midpoint := start + size/2
	for _, marker := range boundaryMarkers {
		idx := lastIndexRunes(runes, marker, start, end)
		if idx > midpoint {
			return idx + len(marker)
		}
	}
	return end
}

// lastIndexRunes returns the highest index i in [start, end-len(marker)] where marker
// occurs entirely inside runes[start:end], or -1.
func lastIndexRunes(runes, marker []rune, start, end int) int {
	for i := end - len(marker); i >= start; i-- {
		match := true
		for j, r := range marker {
			if runes[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
