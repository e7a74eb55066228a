package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"formsmith/internal/cache"
	"formsmith/internal/form"
	"formsmith/internal/log"
	"formsmith/internal/model"
	"formsmith/internal/session"
)

// StartedSession is returned when a respondent opens a form
type StartedSession struct {
	Session *model.SessionState `json:"session"`
	Token   string              `json:"token"`
}

// SessionService runs respondent sessions. State lives in Redis between requests.
type SessionService struct {
	forms       *FormService
	auth        *AuthService
	sessions    cache.SessionCache
	submitLock  cache.SubmitLock
	coordinator *session.Coordinator
	enqueuer    TaskEnqueuer
	broadcaster Broadcaster
	now         func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	forms *FormService,
	auth *AuthService,
	sessions cache.SessionCache,
	submitLock cache.SubmitLock,
	store session.ResponseCreator,
	enqueuer TaskEnqueuer,
) *SessionService {
	return &SessionService{
		forms:       forms,
		auth:        auth,
		sessions:    sessions,
		submitLock:  submitLock,
		coordinator: session.NewCoordinator(store),
		enqueuer:    enqueuer,
		now:         time.Now,
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a new session on a published form
func (s *SessionService) Start(ctx context.Context, formID string) (*StartedSession, error) {
	if _, err := s.forms.LoadPublished(ctx, formID); err != nil {
		return nil, err
	}

	state := session.NewState(formID, uuid.NewString(), uuid.NewString(), s.now().UTC())
	if err := s.sessions.Set(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.auth.GenerateRespondentToken(formID, state.ID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"form_id": formID, "session_id": state.ID}).Debug("session started")
	return &StartedSession{Session: state, Token: token}, nil
}

// Get returns the current state of a session
func (s *SessionService) Get(ctx context.Context, sessionID string) (*model.SessionState, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNotFound
	}
	return state, nil
}

// SetAnswer records one answer and saves the session. It is refused with
// ErrSubmitInProgress while a submit holds the session.
func (s *SessionService) SetAnswer(ctx context.Context, sessionID, questionID string, a model.Answer) (*model.SessionState, error) {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := s.navigator(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := n.SetAnswer(questionID, a); err != nil {
		return nil, err
	}
	return s.save(ctx, n)
}

// Advance moves to another section. A refused forward move still saves the
// errors it produced and returns them as form.ValidationErrors.
func (s *SessionService) Advance(ctx context.Context, sessionID string, target int) (*model.SessionState, error) {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := s.navigator(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := n.Advance(target); err != nil {
		if isValidation(err) {
			return s.saveWith(ctx, n, err)
		}
		return nil, err
	}
	return s.save(ctx, n)
}

// Submit stores the session's answers as a response. Concurrent submits of
// the same session across processes are refused with ErrSubmitInProgress.
func (s *SessionService) Submit(ctx context.Context, sessionID string) (*model.SessionState, error) {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := s.navigator(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, submitErr := s.coordinator.Submit(ctx, n)
	var subErr *session.SubmissionError
	switch {
	case submitErr == nil:
	case errors.As(submitErr, &subErr):
		log.WithFields(log.Fields{"session_id": sessionID, "form_id": n.Form().ID}).
			WithError(subErr.Err).Warn("response store failed")
		return s.saveWith(ctx, n, submitErr)
	case isValidation(submitErr):
		return s.saveWith(ctx, n, submitErr)
	default:
		return nil, submitErr
	}

	state, err := s.save(ctx, n)
	if err != nil {
		// the response is stored; a retry with the same token returns it
		log.WithFields(log.Fields{"session_id": sessionID}).WithError(err).Error("save submitted session failed")
	}
	if state == nil {
		state = n.State()
	}

	log.WithFields(log.Fields{
		"form_id":     resp.FormID,
		"response_id": resp.ID,
		"session_id":  sessionID,
	}).Info("response submitted")

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueResponseSubmitted(context.WithoutCancel(ctx), resp.FormID, resp.ID); err != nil {
			log.WithFields(log.Fields{"response_id": resp.ID}).WithError(err).Warn("enqueue analytics refresh failed")
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(resp.FormID, MsgResponseSubmitted, map[string]interface{}{
			"responseId":  resp.ID,
			"submittedAt": resp.SubmittedAt,
			"score":       resp.Score,
		})
	}
	return state, nil
}

// Reset starts the session over with a fresh submission token
func (s *SessionService) Reset(ctx context.Context, sessionID string) (*model.SessionState, error) {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := s.navigator(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := n.Reset(uuid.NewString()); err != nil {
		return nil, err
	}
	return s.save(ctx, n)
}

// lock serializes every load-mutate-save of a session across processes so
// a failed submit cannot write back over an edit. ErrSubmitInProgress when
// another request holds it.
func (s *SessionService) lock(ctx context.Context, sessionID string) (func(), error) {
	holder := uuid.NewString()
	ok, err := s.submitLock.Acquire(ctx, sessionID, holder)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !ok {
		return nil, session.ErrSubmitInProgress
	}
	return func() {
		if err := s.submitLock.Release(context.WithoutCancel(ctx), sessionID, holder); err != nil {
			log.WithFields(log.Fields{"session_id": sessionID}).WithError(err).Warn("submit lock release failed")
		}
	}, nil
}

func isValidation(err error) bool {
	var verrs form.ValidationErrors
	return errors.As(err, &verrs)
}

func (s *SessionService) navigator(ctx context.Context, sessionID string) (*session.Navigator, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	def, err := s.forms.LoadPublished(ctx, state.FormID)
	if err != nil {
		return nil, err
	}
	return session.NewNavigator(def, state)
}

func (s *SessionService) save(ctx context.Context, n *session.Navigator) (*model.SessionState, error) {
	state := n.State()
	state.UpdatedAt = s.now().UTC()
	if err := s.sessions.Set(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return state, nil
}

// saveWith saves the session and returns cause alongside it
func (s *SessionService) saveWith(ctx context.Context, n *session.Navigator, cause error) (*model.SessionState, error) {
	state, err := s.save(ctx, n)
	if err != nil {
		return nil, err
	}
	return state, cause
}
