package prompt

import (
	"strings"
	"testing"

	"agri-assistant-be/pkg/dispatch"
	"agri-assistant-be/pkg/language"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeGroundedDegradesWithoutContext(t *testing.T) {
	p := Compose(dispatch.KindDocumentGrounded, "what fertilizer?", language.English, Hints{}, "")

	assert.Equal(t, dispatch.KindPlainChat, p.Kind)
	assert.Empty(t, p.Context)
	assert.NotContains(t, p.Serialize(), "<reference_material>",
		"no empty context placeholder may leak into the prompt")
}

func TestComposeGroundedIncludesPassagesBeforeQuestion(t *testing.T) {
	blob := "Passage one about paddy.\n\n-----\n\nPassage two about irrigation."
	p := Compose(dispatch.KindDocumentGrounded, "When should I irrigate?", language.English, Hints{}, blob)

	require.Equal(t, dispatch.KindDocumentGrounded, p.Kind)
	out := p.Serialize()

	assert.Contains(t, out, "Passage one about paddy.")
	assert.Contains(t, out, "Passage two about irrigation.")
	assert.Contains(t, out, "-----")

	ctxIdx := strings.Index(out, "Passage one")
	qIdx := strings.Index(out, "When should I irrigate?")
	instrIdx := strings.Index(out, "<instructions>")
	assert.True(t, instrIdx < ctxIdx, "instruction must precede context")
	assert.True(t, ctxIdx < qIdx, "context must precede question")
}

func TestComposeImageDefaultQuestion(t *testing.T) {
	p := Compose(dispatch.KindImageAnalysis, "", language.English, Hints{}, "")
	assert.Equal(t, dispatch.KindImageAnalysis, p.Kind)
	assert.Equal(t, "What does this image show? Is there any problem with the crop?", p.Question)

	pml := Compose(dispatch.KindImageAnalysis, "", language.Malayalam, Hints{}, "")
	assert.NotEqual(t, p.Question, pml.Question)
	assert.NotEmpty(t, pml.Question)
}

func TestComposeInstructionAlwaysPresent(t *testing.T) {
	kinds := []dispatch.RequestKind{dispatch.KindPlainChat, dispatch.KindDocumentGrounded, dispatch.KindImageAnalysis}
	langs := []language.Language{language.English, language.Malayalam}

	for _, k := range kinds {
		for _, l := range langs {
			p := Compose(k, "question", l, Hints{}, "ctx")
			assert.NotEmpty(t, p.Instruction, "kind %s lang %s", k, l.Code)
			out := p.Serialize()
			assert.True(t, strings.HasPrefix(out, "<instructions>"),
				"instruction block must come first for kind %s lang %s", k, l.Code)
		}
	}
}

func TestComposeProfileHints(t *testing.T) {
	h := Hints{Name: "Ravi", Location: "Wayanad", Details: "Grows pepper and coffee on 2 acres."}
	out := Compose(dispatch.KindPlainChat, "any tips?", language.English, h, "").Serialize()

	assert.Contains(t, out, "Ravi")
	assert.Contains(t, out, "Wayanad")
	assert.Contains(t, out, "pepper and coffee")
	assert.Contains(t, out, "<farmer_profile>")

	// No hints, no block.
	out = Compose(dispatch.KindPlainChat, "any tips?", language.English, Hints{}, "").Serialize()
	assert.NotContains(t, out, "<farmer_profile>")
}
