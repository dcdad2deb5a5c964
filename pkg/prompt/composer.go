package prompt

import (
	"fmt"
	"strings"

	"agri-assistant-be/pkg/dispatch"
	"agri-assistant-be/pkg/language"
)

// Hints carry optional farmer-profile attributes injected into the prompt as
// free text. The generative endpoint consumes natural-language prompts, not
// schemas, so nothing here is structured beyond naming.
type Hints struct {
	Name     string
	Location string
	Details  string // crops, land size, anything else the profile offers
}

func (h Hints) empty() bool {
	return h.Name == "" && h.Location == "" && h.Details == ""
}

// Payload is the composed prompt before serialization. The instruction block
// always precedes user-supplied content so document context cannot override
// how the model is told to behave.
type Payload struct {
	Kind        dispatch.RequestKind
	Language    language.Language
	Instruction string
	Profile     string
	Context     string
	Question    string
}

// Compose builds the prompt payload for one turn. contextBlob is the joined
// retrieval result and may be empty, in which case a document-grounded turn
// degrades to the plain template.
func Compose(kind dispatch.RequestKind, text string, lang language.Language, hints Hints, contextBlob string) Payload {
	// A grounded turn without context is just a plain turn.
	if kind == dispatch.KindDocumentGrounded && contextBlob == "" {
		kind = dispatch.KindPlainChat
	}

	question := strings.TrimSpace(text)
	if kind == dispatch.KindImageAnalysis && question == "" {
		question = defaultImageQuestion(lang)
	}

	return Payload{
		Kind:        kind,
		Language:    lang,
		Instruction: instructionFor(kind, lang),
		Profile:     profileBlock(hints),
		Context:     contextBlob,
		Question:    question,
	}
}

// Serialize flattens the payload to the single string sent to the generative
// endpoint. Only the network boundary calls this; everything upstream works
// on the structured payload.
func (p Payload) Serialize() string {
	var b strings.Builder

	b.WriteString("<instructions>\n")
	b.WriteString(p.Instruction)
	b.WriteString("\n</instructions>\n\n")

	if p.Profile != "" {
		b.WriteString("<farmer_profile>\n")
		b.WriteString(p.Profile)
		b.WriteString("\n</farmer_profile>\n\n")
	}

	if p.Context != "" {
		b.WriteString("<reference_material>\n")
		b.WriteString(p.Context)
		b.WriteString("\n</reference_material>\n\n")
	}

	b.WriteString("<question>\n")
	b.WriteString(p.Question)
	b.WriteString("\n</question>")

	return b.String()
}

func profileBlock(h Hints) string {
	if h.empty() {
		return ""
	}
	var parts []string
	if h.Name != "" {
		parts = append(parts, fmt.Sprintf("The farmer's name is %s.", h.Name))
	}
	if h.Location != "" {
		parts = append(parts, fmt.Sprintf("They farm in %s.", h.Location))
	}
	if h.Details != "" {
		parts = append(parts, h.Details)
	}
	return strings.Join(parts, " ")
}

func instructionFor(kind dispatch.RequestKind, lang language.Language) string {
	switch kind {
	case dispatch.KindDocumentGrounded:
		return groundedInstruction(lang)
	case dispatch.KindImageAnalysis:
		return imageInstruction(lang)
	default:
		return plainInstruction(lang)
	}
}

// Instruction templates keyed by language code. Every template must have a
// variant for every supported language or fall back to English.
var plainInstructions = map[string]string{
	"en": "You are an agricultural assistant helping farmers with practical, region-appropriate advice. " +
		"Answer directly and conversationally in 2-5 sentences. " +
		"Only give advice you are confident about; say so when you are not. Answer in English.",
	"ml": "You are an agricultural assistant helping Kerala farmers with practical advice. " +
		"Answer directly and conversationally in 2-5 sentences. " +
		"ഉത്തരം പൂർണ്ണമായും മലയാളത്തിൽ നൽകുക. ലളിതമായ ഭാഷ ഉപയോഗിക്കുക.",
}

var groundedInstructions = map[string]string{
	"en": "You are an agricultural assistant answering from the farmer's uploaded document. " +
		"Base your answer strictly on the reference material between the <reference_material> tags. " +
		"If the material does not contain what is being asked, say so honestly instead of guessing. Answer in English.",
	"ml": "You are an agricultural assistant answering from the farmer's uploaded document. " +
		"Base your answer strictly on the reference material between the <reference_material> tags. " +
		"രേഖയിൽ ഉത്തരം ഇല്ലെങ്കിൽ അത് തുറന്നു പറയുക. ഉത്തരം പൂർണ്ണമായും മലയാളത്തിൽ നൽകുക.",
}

var imageInstructions = map[string]string{
	"en": "You are an agricultural assistant examining a photo the farmer took. " +
		"Describe what the image shows, identify any visible crop, pest or disease, " +
		"and give concrete next steps the farmer can take. Answer in English.",
	"ml": "You are an agricultural assistant examining a photo the farmer took. " +
		"Describe what the image shows, identify any visible crop, pest or disease, " +
		"and give concrete next steps. ഉത്തരം പൂർണ്ണമായും മലയാളത്തിൽ നൽകുക.",
}

func plainInstruction(lang language.Language) string {
	return pick(plainInstructions, lang)
}

func groundedInstruction(lang language.Language) string {
	return pick(groundedInstructions, lang)
}

func imageInstruction(lang language.Language) string {
	return pick(imageInstructions, lang)
}

func pick(templates map[string]string, lang language.Language) string {
	if t, ok := templates[lang.Code]; ok {
		return t
	}
	return templates[language.Default.Code]
}

func defaultImageQuestion(lang language.Language) string {
	switch lang.Code {
	case "ml":
		return "ഈ ചിത്രത്തിൽ എന്താണ് കാണുന്നത്? കൃഷിയുമായി ബന്ധപ്പെട്ട എന്തെങ്കിലും പ്രശ്നം ഉണ്ടോ?"
	default:
		return "What does this image show? Is there any problem with the crop?"
	}
}
