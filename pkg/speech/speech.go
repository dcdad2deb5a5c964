package speech

import "errors"

var (
	ErrRecognitionUnavailable = errors.New("speech recognition is not available on this platform")
	ErrSynthesisUnavailable   = errors.New("speech synthesis is not available on this platform")
)

// Transcript is one recognition result. Text carries the accumulated
// transcript so far; Final marks a finalized fragment.
type Transcript struct {
	Text  string
	Final bool
}

// Recognizer is the platform speech-recognition handle. Implementations are
// injected per session so tests can substitute fakes instead of depending
// on global platform state.
type Recognizer interface {
	// Start begins single-shot recognition pinned to the locale, with
	// interim results enabled. onResult fires per fragment; onEnd fires
	// once on error or natural end.
	Start(locale string, onResult func(Transcript), onEnd func(error)) error

	// Stop cancels recognition. Idempotent. Implementations must not
	// invoke onResult or onEnd synchronously from inside Stop.
	Stop()
}

// Voice is one synthesis voice offered by the platform.
type Voice struct {
	Name   string
	Locale string
}

// Synthesizer is the platform speech-synthesis handle.
type Synthesizer interface {
	// Voices lists the voices currently available.
	Voices() []Voice

	// Speak starts one utterance; done fires on completion or error.
	Speak(text string, voice Voice, locale string, done func(error)) error

	// Cancel aborts any in-flight utterance. Idempotent. Implementations
	// must not invoke a pending done callback synchronously from inside
	// Cancel.
	Cancel()
}

// Capability reports which speech features the platform offers, detectable
// up front so the UI disables affordances instead of failing at call time.
type Capability struct {
	Recognition bool `json:"recognition"`
	Synthesis   bool `json:"synthesis"`
}
