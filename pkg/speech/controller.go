package speech

import (
	"sync"

	"agri-assistant-be/pkg/language"
)

// State is the controller's speech state. The three states are mutually
// exclusive: starting one activity cancels the other.
type State string

const (
	StateIdle      State = "idle"
	StateListening State = "listening"
	StateSpeaking  State = "speaking"
)

// Controller owns the speech I/O for one session. Recognition and synthesis
// handles are injected; either may be nil when the platform lacks the
// capability.
type Controller struct {
	recognizer  Recognizer
	synthesizer Synthesizer

	// OnTranscript fires with the accumulated text after each final
	// recognition fragment. OnState fires on every state transition.
	// Both are optional, must be set before first use, and must not call
	// back into the controller (they run under its lock).
	OnTranscript func(text string)
	OnState      func(State)

	mu          sync.Mutex
	state       State
	accumulated string
	utterance   int // generation counter, guards stale done callbacks
}

func NewController(rec Recognizer, syn Synthesizer) *Controller {
	return &Controller{
		recognizer:  rec,
		synthesizer: syn,
		state:       StateIdle,
	}
}

// Capabilities reports what the injected handles support.
func (c *Controller) Capabilities() Capability {
	return Capability{
		Recognition: c.recognizer != nil,
		Synthesis:   c.synthesizer != nil,
	}
}

// State returns the current speech state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.state = s
	if c.OnState != nil {
		c.OnState(s)
	}
}

// StartListening begins recognition in the expected language's locale.
// Callers must guard with Capabilities(); without a recognizer this returns
// ErrRecognitionUnavailable. Any in-flight synthesis is cancelled first.
func (c *Controller) StartListening(expected language.Language) error {
	if c.recognizer == nil {
		return ErrRecognitionUnavailable
	}

	c.mu.Lock()
	if c.state == StateSpeaking && c.synthesizer != nil {
		c.synthesizer.Cancel()
	}
	if c.state == StateListening {
		c.recognizer.Stop()
	}
	c.accumulated = ""
	c.setState(StateListening)
	c.mu.Unlock()

	err := c.recognizer.Start(expected.Locale, c.handleResult, c.handleEnd)
	if err != nil {
		c.mu.Lock()
		c.setState(StateIdle)
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Controller) handleResult(t Transcript) {
	if !t.Final {
		return
	}
	c.mu.Lock()
	if c.state != StateListening {
		c.mu.Unlock()
		return
	}
	c.accumulated = t.Text
	text := c.accumulated
	cb := c.OnTranscript
	c.mu.Unlock()

	if cb != nil {
		cb(text)
	}
}

func (c *Controller) handleEnd(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateListening {
		c.setState(StateIdle)
	}
}

// StopListening cancels recognition. Idempotent; always ends idle unless an
// utterance is playing.
func (c *Controller) StopListening() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateListening {
		return
	}
	c.recognizer.Stop()
	c.setState(StateIdle)
}

// Transcript returns the accumulated recognition text.
func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accumulated
}

// Speak synthesizes text. At most one utterance is in flight system-wide:
// any current utterance is cancelled first. The text is stripped of markup
// before synthesis and the locale is re-detected from the cleaned text, not
// the original, so markup cannot skew voice selection.
func (c *Controller) Speak(text string) error {
	if c.synthesizer == nil {
		return ErrSynthesisUnavailable
	}

	cleaned := CleanForSpeech(text)
	if cleaned == "" {
		return nil
	}

	lang := language.Detect(cleaned)
	voice, _ := SelectVoice(c.synthesizer.Voices(), lang.Locale)

	c.mu.Lock()
	// Single-utterance invariant: cancel whatever is in flight.
	c.synthesizer.Cancel()
	if c.state == StateListening {
		c.recognizer.Stop()
	}
	c.utterance++
	id := c.utterance
	c.setState(StateSpeaking)
	c.mu.Unlock()

	err := c.synthesizer.Speak(cleaned, voice, lang.Locale, func(error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A cancelled utterance's completion must not idle its successor.
		if c.state == StateSpeaking && c.utterance == id {
			c.setState(StateIdle)
		}
	})
	if err != nil {
		c.mu.Lock()
		c.setState(StateIdle)
		c.mu.Unlock()
		return err
	}
	return nil
}

// StopSpeaking cancels any in-flight utterance. Idempotent.
func (c *Controller) StopSpeaking() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSpeaking {
		return
	}
	c.synthesizer.Cancel()
	c.setState(StateIdle)
}
