package language

import "unicode"

// Detect classifies text as one of the supported languages by script.
//
// The check is a codepoint scan against each language's Unicode block, in
// registry order; the first language whose script appears anywhere in the
// text wins. It is deterministic, allocation-free and safe to call on every
// keystroke or partial transcript. Mixed-script text resolves to the first
// detected block; no weighting is attempted. Empty or Latin-only text
// returns the default language.
func Detect(text string) Language {
	if text == "" {
		return Default
	}

	for _, l := range Supported {
		if l.script == nil {
			continue
		}
		for _, r := range text {
			if unicode.Is(l.script, r) {
				return l
			}
		}
	}

	return Default
}

// Resolve applies the language precedence rule for an outbound turn: an
// explicit override (user-set preference) always wins over script detection.
// An empty or unsupported override falls back to detecting from text.
func Resolve(override string, text string) Language {
	if override != "" && IsSupported(override) {
		return ByCode(override)
	}
	return Detect(text)
}
