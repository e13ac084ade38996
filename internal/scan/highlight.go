package scan

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Highlight wraps the first occurrence of term in line with **markers**,
// comparing case-insensitively and, when foldAccents is set, tolerating
// diacritic differences between term and text. The matched span keeps
// its original casing and accents. When no literal span can be located
// the line is returned unchanged.
func Highlight(line, term string, foldAccents bool) string {
	if term == "" || line == "" {
		return line
	}

	folded, offsets := foldWithOffsets(line, foldAccents)
	needle := Normalize(term, foldAccents)

	start := strings.Index(folded, needle)
	if start < 0 {
		return line
	}

	origStart := offsets[start]
	origEnd := len(line)
	if end := start + len(needle); end < len(folded) {
		origEnd = offsets[end]
	}

	return line[:origStart] + "**" + line[origStart:origEnd] + "**" + line[origEnd:]
}

// foldWithOffsets normalizes line rune by rune, recording for every
// byte of the folded output the byte offset of the original rune it
// came from. This keeps highlight spans anchored to the original text
// even when folding changes byte lengths.
func foldWithOffsets(line string, foldAccents bool) (string, []int) {
	var builder strings.Builder
	offsets := make([]int, 0, len(line))

	for i, r := range line {
		fr := foldRune(r, foldAccents)
		var buf [8]byte
		n := copy(buf[:], string(fr))
		for b := 0; b < n; b++ {
			offsets = append(offsets, i)
		}
		builder.Write(buf[:n])
	}

	return builder.String(), offsets
}

func foldRune(r rune, foldAccents bool) rune {
	r = unicode.ToLower(r)
	if !foldAccents {
		return r
	}

	decomposed, _, err := transform.String(norm.NFD, string(r))
	if err != nil {
		return r
	}
	for _, dr := range decomposed {
		if !unicode.Is(unicode.Mn, dr) {
			return unicode.ToLower(dr)
		}
	}
	return r
}
