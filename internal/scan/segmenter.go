package scan

import "strings"

const (
	// Context window emitted around a hit line
	WindowBefore = 4
	WindowAfter  = 8

	// Structural marker separating notices within a gazette page
	BlockDelimiter = "*** *** ***"
)

// Block is a windowed chunk of page lines around a hit line
type Block struct {
	StartLine int // index of the first line within the page, 0-based
	HitLine   int // index of the matched line within the page
	Lines     []string
}

// Text returns the block's lines joined back into text
func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

// Lines splits page text into lines
func Lines(pageText string) []string {
	if pageText == "" {
		return nil
	}
	return strings.Split(pageText, "\n")
}

// WindowedBlocks scans lines for hits and emits one block per hit,
// spanning WindowBefore lines above through WindowAfter lines below
// the hit, clamped to the page bounds. Scanning resumes at the end of
// each emitted window, and a window never reaches back into lines a
// previous window already covered, so blocks of a single pass never
// overlap.
func WindowedBlocks(lines []string, hit func(string) bool) []Block {
	var blocks []Block

	i := 0
	prevEnd := 0
	for i < len(lines) {
		if !hit(lines[i]) {
			i++
			continue
		}

		start := i - WindowBefore
		if start < prevEnd {
			start = prevEnd
		}
		end := i + WindowAfter + 1
		if end > len(lines) {
			end = len(lines)
		}

		blocks = append(blocks, Block{
			StartLine: start,
			HitLine:   i,
			Lines:     lines[start:end],
		})

		prevEnd = end
		i = end
	}

	return blocks
}

// DelimitedBlocks splits page text on the structural marker. Empty and
// whitespace-only segments are never emitted.
func DelimitedBlocks(pageText string) []string {
	var blocks []string

	for _, segment := range strings.Split(pageText, BlockDelimiter) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		blocks = append(blocks, segment)
	}

	return blocks
}
