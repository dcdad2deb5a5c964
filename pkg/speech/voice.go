package speech

import "strings"

// SelectVoice picks a synthesis voice for the locale: an exact locale match
// first, then any regional variant of the same language, then any voice at
// all. ok is false only when no voices exist.
func SelectVoice(voices []Voice, locale string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	for _, v := range voices {
		if strings.EqualFold(v.Locale, locale) {
			return v, true
		}
	}

	lang := locale
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		lang = locale[:i]
	}
	for _, v := range voices {
		vl := strings.ReplaceAll(v.Locale, "_", "-")
		if strings.EqualFold(vl, lang) || strings.HasPrefix(strings.ToLower(vl), strings.ToLower(lang)+"-") {
			return v, true
		}
	}

	return voices[0], true
}
