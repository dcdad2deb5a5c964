package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCode string
	}{
		{
			name:     "plain english",
			text:     "What crops grow in monsoon?",
			wantCode: "en",
		},
		{
			name:     "malayalam script",
			text:     "മഴക്കാലത്ത് എന്ത് വിളകൾ വളരും?",
			wantCode: "ml",
		},
		{
			name:     "mixed script resolves to detected block",
			text:     "Please translate: നെല്ല്",
			wantCode: "ml",
		},
		{
			name:     "empty string",
			text:     "",
			wantCode: "en",
		},
		{
			name:     "numbers and punctuation",
			text:     "1234 !!! ???",
			wantCode: "en",
		},
		{
			name:     "latin with accents",
			text:     "café au lait",
			wantCode: "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestResolve(t *testing.T) {
	// Explicit override wins over script detection.
	got := Resolve("en", "മഴക്കാലത്ത്")
	assert.Equal(t, "en", got.Code)

	got = Resolve("ml", "hello there")
	assert.Equal(t, "ml", got.Code)

	// No override: detection decides.
	got = Resolve("", "മഴക്കാലത്ത്")
	assert.Equal(t, "ml", got.Code)

	// Unsupported override falls back to detection.
	got = Resolve("xx", "hello there")
	assert.Equal(t, "en", got.Code)
}

func TestByCode(t *testing.T) {
	assert.Equal(t, "ml-IN", ByCode("ml").Locale)
	assert.Equal(t, "en-US", ByCode("en").Locale)
	assert.Equal(t, Default.Code, ByCode("de").Code)
}
