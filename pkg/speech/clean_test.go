package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanForSpeech(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain prose untouched",
			in:   "Water the paddy field twice a week.",
			want: "Water the paddy field twice a week.",
		},
		{
			name: "emphasis markers",
			in:   "Use **organic** compost, *not* chemical _fertilizer_.",
			want: "Use organic compost, not chemical fertilizer.",
		},
		{
			name: "headings",
			in:   "## Monsoon crops\nRice and ginger do well.",
			want: "Monsoon crops Rice and ginger do well.",
		},
		{
			name: "bullets and numbering",
			in:   "- till the soil\n* add compost\n1. sow seeds\n2) water daily",
			want: "till the soil add compost sow seeds water daily",
		},
		{
			name: "links keep their label",
			in:   "See [the soil guide](https://example.com/guide) for details.",
			want: "See the soil guide for details.",
		},
		{
			name: "emoji removed",
			in:   "Great harvest! 🌾👍 Well done ☀️",
			want: "Great harvest! Well done",
		},
		{
			name: "inline code markers",
			in:   "Run `soil-test` before planting.",
			want: "Run soil-test before planting.",
		},
		{
			name: "only markup yields empty",
			in:   "### \n- \n**",
			want: "",
		},
		{
			name: "malayalam preserved",
			in:   "**നെല്ല്** നടുക",
			want: "നെല്ല് നടുക",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanForSpeech(tt.in))
		})
	}
}
