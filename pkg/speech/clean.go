package speech

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	linkPattern     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingPattern  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletPattern   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedPattern = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	emphasisPattern = regexp.MustCompile(`(\*\*|__|\*|_|~~|` + "`" + `)`)
	spacePattern    = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanForSpeech strips structural markup so synthesized speech contains
// only prose: links keep their label, headings, bullets, numbering and
// emphasis markers are removed, emoji are dropped entirely.
func CleanForSpeech(text string) string {
	out := linkPattern.ReplaceAllString(text, "$1")
	out = headingPattern.ReplaceAllString(out, "")
	out = bulletPattern.ReplaceAllString(out, "")
	out = numberedPattern.ReplaceAllString(out, "")
	out = emphasisPattern.ReplaceAllString(out, "")
	out = stripEmoji(out)
	out = spacePattern.ReplaceAllString(out, " ")

	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

func stripEmoji(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmoji(r rune) bool {
	switch {
	case r == 0x200D || r == 0xFE0F: // zero-width joiner, variation selector
		return true
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case unicode.Is(unicode.So, r):
		return true
	}
	return false
}
