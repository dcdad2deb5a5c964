package resilience

import "agri-assistant-be/pkg/language"

// CallSite names one guarded outbound call. Each site carries its own
// timeout and its own canned fallback per language.
type CallSite string

const (
	SiteGenerate CallSite = "generate"
	SiteVision   CallSite = "vision"
	SiteIngest   CallSite = "ingest"
)

// Canned fallbacks, per call site per language. Each acknowledges degraded
// capability instead of pretending success. English is the fallback variant
// when a language has no entry.
var fallbacks = map[CallSite]map[string]string{
	SiteGenerate: {
		"en": "I'm having trouble reaching the assistant service right now. Please try asking again in a moment.",
		"ml": "ക്ഷമിക്കണം, അസിസ്റ്റന്റ് സേവനം ഇപ്പോൾ ലഭ്യമല്ല. അൽപ്പസമയത്തിനു ശേഷം വീണ്ടും ചോദിക്കുക.",
	},
	SiteVision: {
		"en": "I couldn't analyze the image right now. Please try uploading it again in a moment.",
		"ml": "ക്ഷമിക്കണം, ചിത്രം ഇപ്പോൾ വിശകലനം ചെയ്യാൻ കഴിഞ്ഞില്ല. അൽപ്പസമയത്തിനു ശേഷം വീണ്ടും ശ്രമിക്കുക.",
	},
	SiteIngest: {
		"en": "The document could not be processed right now. Please try uploading it again in a moment.",
		"ml": "ക്ഷമിക്കണം, രേഖ ഇപ്പോൾ പ്രോസസ്സ് ചെയ്യാൻ കഴിഞ്ഞില്ല. അൽപ്പസമയത്തിനു ശേഷം വീണ്ടും ശ്രമിക്കുക.",
	},
}

// FallbackFor returns the canned response for a call site in the given
// language, falling back to English for languages without a variant.
func FallbackFor(site CallSite, lang language.Language) string {
	byLang, ok := fallbacks[site]
	if !ok {
		byLang = fallbacks[SiteGenerate]
	}
	if text, ok := byLang[lang.Code]; ok {
		return text
	}
	return byLang[language.Default.Code]
}
