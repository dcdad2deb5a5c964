package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"agri-assistant-be/internal/constant"
	"agri-assistant-be/internal/dto"
	"agri-assistant-be/internal/pkg/logger"
	"agri-assistant-be/pkg/dispatch"
	"agri-assistant-be/pkg/events"
	"agri-assistant-be/pkg/genai"
	"agri-assistant-be/pkg/language"
	"agri-assistant-be/pkg/prompt"
	"agri-assistant-be/pkg/resilience"
	"agri-assistant-be/pkg/retrieval"
	"agri-assistant-be/pkg/session"
	"agri-assistant-be/pkg/speech"
	"agri-assistant-be/pkg/vision"

	"github.com/gofiber/fiber/v2"
)

// IAssistantService is the conversational orchestrator: it turns one user
// input (text, voice transcript, image or document) into a delivered
// assistant turn, coordinating retrieval, prompt composition, the guarded
// generative call and optional speech output.
type IAssistantService interface {
	CreateSession(ctx context.Context, userId string) (*dto.CreateSessionResponse, error)
	GetHistory(ctx context.Context, userId, sessionId string) (*dto.GetHistoryResponse, error)
	SendChat(ctx context.Context, userId, sessionId string, request *dto.SendChatRequest, hints prompt.Hints) (*dto.SendChatResponse, error)
	SendImage(ctx context.Context, userId, sessionId, filename string, image []byte, question, langOverride string, hints prompt.Hints) (*dto.SendChatResponse, error)
	UploadDocument(ctx context.Context, userId, sessionId, filename string, content []byte) (*dto.UploadDocumentResponse, error)
	ClearDocument(ctx context.Context, userId, sessionId string) error
	DeleteSession(ctx context.Context, userId, sessionId string) error
	Health(ctx context.Context) *dto.HealthResponse
	SpeechController(sessionId string) (*speech.Controller, bool)
}

// StatePublisher pushes session state changes and transcripts to connected
// UI clients. The websocket hub implements it.
type StatePublisher interface {
	PublishState(sessionId string, flags session.Flags)
	PublishTranscript(sessionId string, text string)
}

// SpeechFactory builds the per-session speech controller with whatever
// platform handles the deployment injected.
type SpeechFactory func() *speech.Controller

type assistantService struct {
	store     *session.Store
	generator genai.Provider
	retriever retrieval.Provider
	ingestor  retrieval.Ingestor
	analyzer  vision.Analyzer
	guard     *resilience.Guard
	health    *resilience.HealthMonitor
	publisher *events.Publisher
	states    StatePublisher
	log       logger.ILogger

	topK          int
	searchTimeout time.Duration
	newSpeech     SpeechFactory
	mu            sync.Mutex
	speechByName  map[string]*speech.Controller
}

func NewAssistantService(
	store *session.Store,
	generator genai.Provider,
	retriever retrieval.Provider,
	ingestor retrieval.Ingestor,
	analyzer vision.Analyzer,
	guard *resilience.Guard,
	health *resilience.HealthMonitor,
	publisher *events.Publisher,
	states StatePublisher,
	newSpeech SpeechFactory,
	topK int,
	searchTimeout time.Duration,
	log logger.ILogger,
) IAssistantService {
	as := &assistantService{
		store:         store,
		generator:     generator,
		retriever:     retriever,
		ingestor:      ingestor,
		analyzer:      analyzer,
		guard:         guard,
		health:        health,
		publisher:     publisher,
		states:        states,
		newSpeech:     newSpeech,
		topK:          topK,
		searchTimeout: searchTimeout,
		log:           log,
		speechByName:  make(map[string]*speech.Controller),
	}

	// Sessions leave the store by explicit delete or TTL expiry; either way
	// the speech controller goes with them.
	store.OnEvicted(func(sessionId string, _ *session.Session) {
		as.dropSpeechController(sessionId)
	})

	return as
}

// CreateSession starts a conversation with a greeting turn and wires up the
// session's speech controller.
func (as *assistantService) CreateSession(ctx context.Context, userId string) (*dto.CreateSessionResponse, error) {
	s := session.New(userId)

	greeting := session.NewTurn(session.RoleAssistant, constant.GreetingFor(language.Default.Code), language.Default.Code)
	s.Append(greeting)
	as.store.Save(s)

	ctl := as.newSpeech()
	sessionId := s.Id
	ctl.OnState = func(state speech.State) {
		as.onSpeechState(sessionId, state)
	}
	ctl.OnTranscript = func(text string) {
		if as.states != nil {
			as.states.PublishTranscript(sessionId, text)
		}
	}

	as.mu.Lock()
	as.speechByName[s.Id] = ctl
	as.mu.Unlock()

	as.log.Info("Assistant", "Session created", map[string]interface{}{
		"session_id": s.Id,
		"user_id":    userId,
	})

	return &dto.CreateSessionResponse{
		SessionId: s.Id,
		Greeting:  toTurnDTO(greeting),
	}, nil
}

func (as *assistantService) onSpeechState(sessionId string, state speech.State) {
	s, found := as.store.Get(sessionId)
	if !found {
		return
	}
	s.SetListening(state == speech.StateListening)
	s.SetSpeaking(state == speech.StateSpeaking)
	if as.states != nil {
		as.states.PublishState(sessionId, s.Flags())
	}
}

func (as *assistantService) resolveSession(userId, sessionId string) (*session.Session, error) {
	s, found := as.store.Get(sessionId)
	if !found || s.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return s, nil
}

// GetHistory returns the ordered turn log. Reads never mutate the session.
func (as *assistantService) GetHistory(ctx context.Context, userId, sessionId string) (*dto.GetHistoryResponse, error) {
	s, err := as.resolveSession(userId, sessionId)
	if err != nil {
		return nil, err
	}

	turns := s.Turns()
	out := make([]dto.TurnDTO, 0, len(turns))
	for _, t := range turns {
		out = append(out, toTurnDTO(t))
	}

	resp := &dto.GetHistoryResponse{
		SessionId: s.Id,
		Turns:     out,
		Preferred: s.PreferredLanguage(),
	}
	if doc, ok := s.ActiveDocument(); ok {
		resp.ActiveDocument = &dto.ActiveDocumentDTO{Id: doc.Id, DisplayName: doc.DisplayName}
	}
	return resp, nil
}

// SendChat processes one text (or voice-transcribed) turn.
func (as *assistantService) SendChat(ctx context.Context, userId, sessionId string, request *dto.SendChatRequest, hints prompt.Hints) (*dto.SendChatResponse, error) {
	s, err := as.resolveSession(userId, sessionId)
	if err != nil {
		return nil, err
	}

	lang := as.resolveLanguage(s, request.Language, request.Message)

	// Invalid input is rejected locally, before any network call, with an
	// explanatory turn.
	message := strings.TrimSpace(request.Message)
	if message == "" {
		reply := session.NewTurn(session.RoleAssistant, constant.EmptyMessageFor(lang.Code), lang.Code)
		s.Append(reply)
		as.store.Save(s)
		return &dto.SendChatResponse{
			SessionId: s.Id,
			Kind:      string(dispatch.KindPlainChat),
			Degraded:  false,
			Reply:     toTurnDTO(reply),
		}, nil
	}

	if !s.BeginProcessing() {
		return nil, fiber.NewError(fiber.StatusTooManyRequests, constant.BusyMessage)
	}
	defer as.endProcessing(s)
	as.pushFlags(s)

	userTurn := session.NewTurn(session.RoleUser, message, lang.Code)
	s.Append(userTurn)

	doc, hasDoc := s.ActiveDocument()
	kind := dispatch.Decide(false, hasDoc)

	// Retrieval runs strictly before composition; its absence degrades the
	// turn to plain chat, it is never an error.
	var contextBlob string
	if kind == dispatch.KindDocumentGrounded {
		searchCtx, cancel := context.WithTimeout(ctx, as.searchTimeout)
		defer cancel()
		blob, ok := as.retriever.FetchContext(searchCtx, doc.Id, message, as.topK)
		if ok {
			contextBlob = blob
		} else {
			as.log.Warn("Assistant", "Retrieval returned no context, degrading to plain chat", map[string]interface{}{
				"session_id":  s.Id,
				"document_id": doc.Id,
			})
		}
	}

	payload := prompt.Compose(kind, message, lang, hints, contextBlob)

	reply, degraded := as.guard.Do(ctx, resilience.SiteGenerate, lang, func(callCtx context.Context) (string, error) {
		return as.generator.Generate(callCtx, genai.Request{
			Message: payload.Serialize(),
			Context: payload.Context,
		})
	})
	if degraded {
		as.log.Warn("Assistant", "Generative call degraded to fallback", map[string]interface{}{
			"session_id": s.Id,
			"kind":       string(payload.Kind),
		})
	}

	replyTurn := session.NewTurn(session.RoleAssistant, reply, lang.Code)
	s.Append(replyTurn)
	as.store.Save(s)

	// A voice-originated turn gets its reply spoken, capability permitting.
	if request.Voice {
		as.speakReply(s.Id, reply)
	}

	return &dto.SendChatResponse{
		SessionId: s.Id,
		Kind:      string(payload.Kind),
		Degraded:  degraded,
		Sent:      turnDTOPtr(userTurn),
		Reply:     toTurnDTO(replyTurn),
	}, nil
}

// SendImage processes an image turn. The question may be empty; the
// composer substitutes the per-language default.
func (as *assistantService) SendImage(ctx context.Context, userId, sessionId, filename string, image []byte, question, langOverride string, hints prompt.Hints) (*dto.SendChatResponse, error) {
	s, err := as.resolveSession(userId, sessionId)
	if err != nil {
		return nil, err
	}

	lang := as.resolveLanguage(s, langOverride, question)

	if !vision.IsImageFilename(filename) || len(image) == 0 {
		reply := session.NewTurn(session.RoleAssistant, constant.NotAnImageFor(lang.Code), lang.Code)
		s.Append(reply)
		as.store.Save(s)
		return &dto.SendChatResponse{
			SessionId: s.Id,
			Kind:      string(dispatch.KindImageAnalysis),
			Degraded:  false,
			Reply:     toTurnDTO(reply),
		}, nil
	}

	if !s.BeginProcessing() {
		return nil, fiber.NewError(fiber.StatusTooManyRequests, constant.BusyMessage)
	}
	defer as.endProcessing(s)
	as.pushFlags(s)

	payload := prompt.Compose(dispatch.KindImageAnalysis, question, lang, hints, "")

	userText := strings.TrimSpace(question)
	if userText == "" {
		userText = "[" + filename + "]"
	}
	userTurn := session.NewTurn(session.RoleUser, userText, lang.Code)
	s.Append(userTurn)

	reply, degraded := as.guard.Do(ctx, resilience.SiteVision, lang, func(callCtx context.Context) (string, error) {
		return as.analyzer.Analyze(callCtx, filename, image, payload.Serialize())
	})

	replyTurn := session.NewTurn(session.RoleAssistant, reply, lang.Code)
	s.Append(replyTurn)
	as.store.Save(s)

	return &dto.SendChatResponse{
		SessionId: s.Id,
		Kind:      string(dispatch.KindImageAnalysis),
		Degraded:  degraded,
		Sent:      turnDTOPtr(userTurn),
		Reply:     toTurnDTO(replyTurn),
	}, nil
}

// UploadDocument forwards a document to the external ingestion endpoint and
// makes it the session's grounding document. Failure resolves to a fallback
// turn, never an error.
func (as *assistantService) UploadDocument(ctx context.Context, userId, sessionId, filename string, content []byte) (*dto.UploadDocumentResponse, error) {
	s, err := as.resolveSession(userId, sessionId)
	if err != nil {
		return nil, err
	}

	lang := language.Resolve(s.PreferredLanguage(), "")

	if !s.BeginProcessing() {
		return nil, fiber.NewError(fiber.StatusTooManyRequests, constant.BusyMessage)
	}
	defer as.endProcessing(s)
	as.pushFlags(s)

	ingestCtx, cancel := context.WithTimeout(ctx, as.guard.Timeout(resilience.SiteIngest))
	defer cancel()

	docId, ingestErr := as.ingestor.IngestDocument(ingestCtx, filename, content)
	if ingestErr != nil {
		as.log.Error("Assistant", "Document ingestion failed", map[string]interface{}{
			"session_id": s.Id,
			"filename":   filename,
			"error":      ingestErr.Error(),
		})
		reply := session.NewTurn(session.RoleAssistant, resilience.FallbackFor(resilience.SiteIngest, lang), lang.Code)
		s.Append(reply)
		as.store.Save(s)
		return &dto.UploadDocumentResponse{Reply: toTurnDTO(reply), Degraded: true}, nil
	}

	doc := session.DocumentHandle{Id: docId, DisplayName: filename}
	s.SetActiveDocument(doc)

	reply := session.NewTurn(session.RoleAssistant, documentReadyText(lang, filename), lang.Code)
	s.Append(reply)
	as.store.Save(s)

	if as.publisher != nil {
		if err := as.publisher.PublishDocumentIngested(events.DocumentIngested{
			SessionId:   s.Id,
			UserId:      userId,
			DocumentId:  docId,
			DisplayName: filename,
			OccurredAt:  time.Now(),
		}); err != nil {
			as.log.Warn("Assistant", "Failed to publish ingestion event", map[string]interface{}{
				"session_id": s.Id,
				"error":      err.Error(),
			})
		}
	}

	return &dto.UploadDocumentResponse{
		Document: &dto.ActiveDocumentDTO{Id: doc.Id, DisplayName: doc.DisplayName},
		Reply:    toTurnDTO(reply),
	}, nil
}

// ClearDocument drops the grounding document; subsequent turns are plain chat.
func (as *assistantService) ClearDocument(ctx context.Context, userId, sessionId string) error {
	s, err := as.resolveSession(userId, sessionId)
	if err != nil {
		return err
	}
	s.ClearActiveDocument()
	as.store.Save(s)
	return nil
}

// DeleteSession discards the conversation; the store's eviction hook drops
// the speech controller.
func (as *assistantService) DeleteSession(ctx context.Context, userId, sessionId string) error {
	s, err := as.resolveSession(userId, sessionId)
	if err != nil {
		return err
	}

	as.store.Delete(s.Id)
	return nil
}

func (as *assistantService) dropSpeechController(sessionId string) {
	as.mu.Lock()
	ctl, ok := as.speechByName[sessionId]
	if ok {
		delete(as.speechByName, sessionId)
	}
	as.mu.Unlock()
	if ok {
		ctl.StopListening()
		ctl.StopSpeaking()
	}
}

// Health reports the generative backend flag and the speech capabilities so
// the UI can pre-warn or disable controls before any call is attempted.
func (as *assistantService) Health(ctx context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:    "ok",
		Generator: as.health.Healthy(),
		Speech:    as.newSpeech().Capabilities(),
	}
}

// SpeechController exposes a session's controller for transport handlers.
func (as *assistantService) SpeechController(sessionId string) (*speech.Controller, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()
	ctl, ok := as.speechByName[sessionId]
	return ctl, ok
}

// resolveLanguage applies the precedence rule: explicit request override,
// then the session's stored user override, then script detection. Explicit
// overrides are remembered for subsequent turns and voice locale selection.
func (as *assistantService) resolveLanguage(s *session.Session, override, text string) language.Language {
	if override != "" && language.IsSupported(override) {
		s.SetPreferredLanguage(override)
		return language.ByCode(override)
	}
	return language.Resolve(s.PreferredLanguage(), text)
}

func (as *assistantService) endProcessing(s *session.Session) {
	s.EndProcessing()
	as.pushFlags(s)
}

func (as *assistantService) pushFlags(s *session.Session) {
	if as.states != nil {
		as.states.PublishState(s.Id, s.Flags())
	}
}

func (as *assistantService) speakReply(sessionId, text string) {
	as.mu.Lock()
	ctl, ok := as.speechByName[sessionId]
	as.mu.Unlock()
	if !ok || !ctl.Capabilities().Synthesis {
		return
	}
	if err := ctl.Speak(text); err != nil {
		as.log.Warn("Assistant", "Failed to speak reply", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func documentReadyText(lang language.Language, filename string) string {
	if lang.Code == "ml" {
		return "\"" + filename + "\" വായിച്ചു കഴിഞ്ഞു. അതിനെക്കുറിച്ച് എന്തും ചോദിക്കൂ."
	}
	return "I've read \"" + filename + "\". Ask me anything about it."
}

func turnDTOPtr(t session.Turn) *dto.TurnDTO {
	d := toTurnDTO(t)
	return &d
}

func toTurnDTO(t session.Turn) dto.TurnDTO {
	return dto.TurnDTO{
		Id:        t.Id,
		Role:      t.Role,
		Text:      t.Text,
		Language:  t.Language,
		CreatedAt: t.CreatedAt,
	}
}
