package agent

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/haqsetu/triage/internal/archive"
	"github.com/haqsetu/triage/internal/langs"
	"github.com/haqsetu/triage/internal/llm"
	"github.com/haqsetu/triage/internal/observability"
	"github.com/haqsetu/triage/internal/translate"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrEmptyMessage        = errors.New("message must not be empty")
	ErrMessageTooLong      = errors.New("message exceeds maximum length")
	ErrUnsupportedLanguage = errors.New("unsupported language code")
)

// Config contains the agent service's tunables. Zero values fall back to
// the defaults used by the reference deployment.
type Config struct {
	DefaultLanguage  string
	MaxMessageChars  int
	HistoryLimit     int
	SessionTTL       time.Duration
	MaxSessions      int
	LLMTimeout       time.Duration
	TranslateTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "hi"
	}
	if c.MaxMessageChars <= 0 {
		c.MaxMessageChars = 5000
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 20
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 10000
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = 60 * time.Second
	}
	if c.TranslateTimeout <= 0 {
		c.TranslateTimeout = 10 * time.Second
	}
	return c
}

// sessionState pairs a session with its two locks. turnMu serializes
// whole turns: it is held for one full ProcessMessage call so concurrent
// calls against the same session cannot interleave appends or merges.
// mu guards the session fields themselves and is only ever held briefly,
// so the janitor and snapshot paths can read a consistent session without
// waiting out an in-flight generation call.
type sessionState struct {
	turnMu sync.Mutex
	mu     sync.Mutex
	sess   *Session
}

// snapshot returns a deep copy of the session, safe to hand out.
func (st *sessionState) snapshot() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return cloneSession(st.sess)
}

// lastActive reads the session's last-activity time under the data lock.
func (st *sessionState) lastActive() time.Time {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sess.LastActive
}

// Service owns the session store and drives each conversation turn
// through the generation and translation collaborators.
type Service struct {
	cfg        Config
	generator  llm.Client
	translator translate.Translator // nil when translation is not configured
	archiver   archive.Store        // nil disables turn archiving
	metrics    *observability.Metrics

	mu       sync.RWMutex
	sessions map[string]*sessionState
	onExpire func(*Session)
}

func NewService(cfg Config, generator llm.Client, translator translate.Translator, archiver archive.Store, metrics *observability.Metrics) *Service {
	return &Service{
		cfg:        cfg.withDefaults(),
		generator:  generator,
		translator: translator,
		archiver:   archiver,
		metrics:    metrics,
		sessions:   make(map[string]*sessionState),
	}
}

// SetExpireHook registers a callback invoked for every evicted session.
func (s *Service) SetExpireHook(hook func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

// StartSession creates a conversation session bound to an empty case
// analysis. An empty id generates a fresh one; an id that already exists
// returns the existing session unchanged, so an in-flight case is never
// discarded.
func (s *Service) StartSession(sessionID, language string) (*Session, error) {
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	if !langs.Supported(language) {
		return nil, ErrUnsupportedLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID != "" {
		if st, ok := s.sessions[sessionID]; ok {
			return st.snapshot(), nil
		}
	} else {
		sessionID = uuid.NewString()
	}

	sess := s.registerLocked(sessionID, language)
	return cloneSession(sess), nil
}

// registerLocked inserts a fresh session, evicting the least recently
// active one when the resident cap is reached. Caller holds s.mu.
func (s *Service) registerLocked(sessionID, language string) *Session {
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.evictOldestLocked()
	}

	now := time.Now().UTC()
	sess := &Session{
		SessionID:    sessionID,
		CaseAnalysis: NewCaseAnalysis(sessionID),
		UserLanguage: language,
		CreatedAt:    now,
		LastActive:   now,
	}
	s.sessions[sessionID] = &sessionState{sess: sess}

	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("created").Inc()
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
	return sess
}

func (s *Service) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, st := range s.sessions {
		active := st.lastActive()
		if oldestID == "" || active.Before(oldest) {
			oldestID = id
			oldest = active
		}
	}
	if oldestID == "" {
		return
	}
	evicted := s.sessions[oldestID].snapshot()
	delete(s.sessions, oldestID)
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("evicted").Inc()
	}
	if s.onExpire != nil {
		s.onExpire(evicted)
	}
}

// GetSession returns a snapshot of an existing session.
func (s *Service) GetSession(sessionID string) (*Session, error) {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st.snapshot(), nil
}

// GetCaseAnalysis returns a snapshot of the case built for a session.
func (s *Service) GetCaseAnalysis(sessionID string) (*CaseAnalysis, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.CaseAnalysis, nil
}

// ArchivedTurns returns the most recent archived turns for a session,
// oldest first. The archive outlives the in-memory session, so no session
// lookup is involved; an unconfigured archive yields an empty history.
func (s *Service) ArchivedTurns(ctx context.Context, sessionID string, limit int) ([]archive.TurnRecord, error) {
	if s.archiver == nil {
		return nil, nil
	}
	return s.archiver.RecentTurns(ctx, sessionID, limit)
}

// SessionCount reports the number of resident sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ProcessMessage drives one full conversation turn. Collaborator
// failures never surface to the caller: generation failure yields the
// helpline fallback text, translation failure yields untranslated text,
// and the disclaimer is always present. Only structurally invalid input
// is rejected.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, userMessage, language string) (*Response, error) {
	if userMessage == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(userMessage) > s.cfg.MaxMessageChars {
		return nil, ErrMessageTooLong
	}
	if language != "" && !langs.Supported(language) {
		return nil, ErrUnsupportedLanguage
	}

	started := time.Now()

	st := s.resolveOrCreate(sessionID, language)
	st.turnMu.Lock()
	defer st.turnMu.Unlock()

	sess := st.sess
	userLang := language
	if userLang == "" {
		userLang = sess.UserLanguage
	}

	s.appendTurn(ctx, st, RoleUser, userMessage, userLang)

	pivotMessage := s.translateIn(ctx, userMessage, userLang)
	history := buildHistory(sess.Turns, s.cfg.HistoryLimit)
	raw := s.generate(ctx, pivotMessage, history)

	parseStart := time.Now()
	upd := ParseUpdate(raw)
	responseText := raw
	if upd.HasResponseText {
		responseText = upd.ResponseText
	}
	st.mu.Lock()
	MergeUpdate(sess.CaseAnalysis, upd)
	st.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ObserveTurnStage("parse_merge", time.Since(parseStart))
	}

	disclaimer := s.resolveDisclaimer(ctx, userLang)
	finalText := s.translateOut(ctx, responseText, userLang)

	s.appendTurn(ctx, st, RoleAgent, finalText, userLang)

	st.mu.Lock()
	caseSnapshot := cloneCase(sess.CaseAnalysis)
	st.mu.Unlock()

	if s.metrics != nil {
		s.metrics.TurnsProcessed.Inc()
		s.metrics.ObserveTurnLatency(time.Since(started))
	}

	return &Response{
		ResponseText:     finalText,
		CaseAnalysis:     caseSnapshot,
		FollowUpQuestion: upd.FollowUpQuestion,
		Disclaimer:       disclaimer,
		Language:         userLang,
	}, nil
}

// resolveOrCreate finds the session or transparently creates one with
// the supplied or default language.
func (s *Service) resolveOrCreate(sessionID, language string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		return st
	}
	if language == "" {
		language = s.cfg.DefaultLanguage
	}
	s.registerLocked(sessionID, language)
	return s.sessions[sessionID]
}

// appendTurn records a turn on the session and mirrors it into the
// archive. Archive failure is deliberately swallowed: the live turn has
// already been committed in memory.
func (s *Service) appendTurn(ctx context.Context, st *sessionState, role Role, text, language string) {
	now := time.Now().UTC()
	st.mu.Lock()
	sess := st.sess
	sess.Turns = append(sess.Turns, ConversationTurn{
		Role:      role,
		Text:      text,
		Timestamp: now,
		Language:  language,
	})
	sess.LastActive = now
	st.mu.Unlock()

	if s.archiver == nil {
		return
	}
	rec := archive.TurnRecord{
		SessionID: sess.SessionID,
		CaseID:    sess.CaseAnalysis.CaseID,
		Role:      string(role),
		Text:      text,
		Language:  language,
		CreatedAt: now,
	}
	if err := s.archiver.SaveTurn(ctx, rec); err != nil && s.metrics != nil {
		s.metrics.CollaboratorErrors.WithLabelValues("archive", "save_turn").Inc()
	}
}

// translateIn converts the user message to the pivot language. Failure
// falls back to the original text; the turn is never blocked.
func (s *Service) translateIn(ctx context.Context, text, userLang string) string {
	if userLang == langs.Pivot || s.translator == nil {
		return text
	}
	stageStart := time.Now()
	tctx, cancel := context.WithTimeout(ctx, s.cfg.TranslateTimeout)
	defer cancel()
	out, err := s.translator.Translate(tctx, text, userLang, langs.Pivot)
	if s.metrics != nil {
		s.metrics.ObserveTurnStage("translate_in", time.Since(stageStart))
	}
	if err != nil {
		s.noteCollaboratorError("translation", "inbound")
		return text
	}
	return out
}

// translateOut converts the response back to the user's language.
// Failure returns the untranslated pivot-language text.
func (s *Service) translateOut(ctx context.Context, text, userLang string) string {
	if userLang == langs.Pivot || s.translator == nil {
		return text
	}
	stageStart := time.Now()
	tctx, cancel := context.WithTimeout(ctx, s.cfg.TranslateTimeout)
	defer cancel()
	out, err := s.translator.Translate(tctx, text, langs.Pivot, userLang)
	if s.metrics != nil {
		s.metrics.ObserveTurnStage("translate_out", time.Since(stageStart))
	}
	if err != nil {
		s.noteCollaboratorError("translation", "outbound")
		return text
	}
	return out
}

// generate calls the generation collaborator; on any failure it
// substitutes the safe helpline-directing fallback text.
func (s *Service) generate(ctx context.Context, pivotMessage string, history []llm.HistoryTurn) string {
	stageStart := time.Now()
	gctx, cancel := context.WithTimeout(ctx, s.cfg.LLMTimeout)
	defer cancel()
	resp, err := s.generator.Generate(gctx, llm.GenerateRequest{
		Prompt:      pivotMessage,
		Context:     systemPrompt,
		History:     history,
		Temperature: generateTemperature,
	})
	if s.metrics != nil {
		s.metrics.ObserveTurnStage("generate", time.Since(stageStart))
	}
	if err != nil {
		s.noteCollaboratorError("generation", "generate")
		if s.metrics != nil {
			s.metrics.ObserveTurnIndicator("generate_fallback")
		}
		return fallbackResponseText
	}
	return resp.Answer
}

// resolveDisclaimer follows the fallback chain: pre-translated table,
// runtime translation of the canonical text, the canonical text itself.
func (s *Service) resolveDisclaimer(ctx context.Context, userLang string) string {
	if d, ok := langs.Disclaimer(userLang); ok {
		return d
	}
	if s.translator == nil {
		return langs.DisclaimerEN
	}
	stageStart := time.Now()
	tctx, cancel := context.WithTimeout(ctx, s.cfg.TranslateTimeout)
	defer cancel()
	out, err := s.translator.Translate(tctx, langs.DisclaimerEN, langs.Pivot, userLang)
	if s.metrics != nil {
		s.metrics.ObserveTurnStage("disclaimer", time.Since(stageStart))
	}
	if err != nil || out == "" {
		s.noteCollaboratorError("translation", "disclaimer")
		return langs.DisclaimerEN
	}
	return out
}

func (s *Service) noteCollaboratorError(collaborator, stage string) {
	if s.metrics != nil {
		s.metrics.CollaboratorErrors.WithLabelValues(collaborator, stage).Inc()
	}
}

// buildHistory maps prior turns (excluding the one just appended) to the
// generic speaker/text shape, bounded to the most recent limit turns.
// An empty history collapses to nil rather than an empty slice.
func buildHistory(turns []ConversationTurn, limit int) []llm.HistoryTurn {
	if len(turns) <= 1 {
		return nil
	}
	prior := turns[:len(turns)-1]
	if len(prior) > limit {
		prior = prior[len(prior)-limit:]
	}
	history := make([]llm.HistoryTurn, 0, len(prior))
	for _, turn := range prior {
		speaker := "user"
		if turn.Role == RoleAgent {
			speaker = "model"
		}
		history = append(history, llm.HistoryTurn{Speaker: speaker, Text: turn.Text})
	}
	return history
}

// StartJanitor sweeps idle sessions on an interval until ctx is done.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.expireIdle()
			}
		}
	}()
}

func (s *Service) expireIdle() {
	cutoff := time.Now().UTC().Add(-s.cfg.SessionTTL)

	s.mu.RLock()
	candidates := make(map[string]*sessionState, len(s.sessions))
	for id, st := range s.sessions {
		candidates[id] = st
	}
	s.mu.RUnlock()

	expired := make(map[string]*Session)
	for id, st := range candidates {
		st.mu.Lock()
		if !st.sess.LastActive.After(cutoff) {
			expired[id] = cloneSession(st.sess)
		}
		st.mu.Unlock()
	}
	if len(expired) == 0 {
		return
	}

	s.mu.Lock()
	var removed []*Session
	for id, snap := range expired {
		// A session re-registered under the same id since the scan is a
		// different state; leave it alone.
		if cur, ok := s.sessions[id]; ok && cur == candidates[id] {
			delete(s.sessions, id)
			removed = append(removed, snap)
		}
	}
	hook := s.onExpire
	if s.metrics != nil && len(removed) > 0 {
		s.metrics.SessionEvents.WithLabelValues("expired").Add(float64(len(removed)))
		s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
	s.mu.Unlock()

	if hook != nil {
		for _, sess := range removed {
			hook(sess)
		}
	}
}

func cloneSession(sess *Session) *Session {
	c := *sess
	c.Turns = make([]ConversationTurn, len(sess.Turns))
	copy(c.Turns, sess.Turns)
	c.CaseAnalysis = cloneCase(sess.CaseAnalysis)
	return &c
}

func cloneCase(a *CaseAnalysis) *CaseAnalysis {
	if a == nil {
		return nil
	}
	c := *a
	c.IdentifiedLaws = append([]IdentifiedLaw(nil), a.IdentifiedLaws...)
	c.ApplicableSchemes = append([]ApplicableScheme(nil), a.ApplicableSchemes...)
	c.RecommendedActions = append([]string(nil), a.RecommendedActions...)
	c.Helplines = append([]Helpline(nil), a.Helplines...)
	return &c
}
