package constant

const (
	// Greeting turns, per language. The greeting is an assistant turn
	// appended when a session is created.
	GreetingEN = "Hello! I'm your farming assistant. Ask me anything about your crops, or upload a document or photo."
	GreetingML = "നമസ്കാരം! ഞാൻ നിങ്ങളുടെ കൃഷി സഹായി ആണ്. വിളകളെക്കുറിച്ച് എന്തും ചോദിക്കൂ, അല്ലെങ്കിൽ ഒരു രേഖയോ ഫോട്ടോയോ അപ്‌ലോഡ് ചെയ്യൂ."

	// Local rejections, delivered as explanatory turns before any network
	// call is attempted.
	EmptyMessageEN = "Please type a question first."
	EmptyMessageML = "ദയവായി ആദ്യം ഒരു ചോദ്യം ടൈപ്പ് ചെയ്യുക."

	NotAnImageEN = "That file doesn't look like an image. Please upload a photo (JPG or PNG)."
	NotAnImageML = "ആ ഫയൽ ഒരു ചിത്രമായി തോന്നുന്നില്ല. ദയവായി ഒരു ഫോട്ടോ (JPG അല്ലെങ്കിൽ PNG) അപ്‌ലോഡ് ചെയ്യുക."

	// BusyMessage is returned when a turn arrives while another is still
	// being processed; the processing gate admits one turn at a time.
	BusyMessage = "Please wait for the previous answer to finish."
)

// GreetingFor returns the greeting text for a language code.
func GreetingFor(code string) string {
	if code == "ml" {
		return GreetingML
	}
	return GreetingEN
}

// EmptyMessageFor returns the empty-input rejection for a language code.
func EmptyMessageFor(code string) string {
	if code == "ml" {
		return EmptyMessageML
	}
	return EmptyMessageEN
}

// NotAnImageFor returns the invalid-file rejection for a language code.
func NotAnImageFor(code string) string {
	if code == "ml" {
		return NotAnImageML
	}
	return NotAnImageEN
}
