package language

import "unicode"

// Language describes one supported assistant language.
type Language struct {
	Code   string // ISO 639-1 code, e.g. "en"
	Label  string // human label used in UI prompts
	Locale string // BCP-47 tag for platform speech APIs

	// script is the Unicode block whose presence identifies this language.
	// The default language has no script predicate: it is the fallback.
	script *unicode.RangeTable
}

var (
	English = Language{
		Code:   "en",
		Label:  "English",
		Locale: "en-US",
	}

	Malayalam = Language{
		Code:   "ml",
		Label:  "Malayalam",
		Locale: "ml-IN",
		script: unicode.Malayalam,
	}
)

// Supported is the closed set of assistant languages, in detection order.
// The default language (English) carries no script predicate and is returned
// when nothing else matches.
var Supported = []Language{Malayalam, English}

// Default is the language used when detection finds no known script.
var Default = English

// ByCode resolves a language code to its Language. Unknown codes resolve to
// the default so stored preferences can never select an unsupported language.
func ByCode(code string) Language {
	for _, l := range Supported {
		if l.Code == code {
			return l
		}
	}
	return Default
}

// IsSupported reports whether code names one of the enumerated languages.
func IsSupported(code string) bool {
	for _, l := range Supported {
		if l.Code == code {
			return true
		}
	}
	return false
}
