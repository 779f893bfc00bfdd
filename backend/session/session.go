package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"assignmentmate/backend/api"
	"assignmentmate/backend/models"
)

// SecondsPerQuestion is the time budget granted for every question.
const SecondsPerQuestion = 60

const (
	QuizListRoute = "/quizzes"

	submitFailedNotice = "Failed to submit quiz. Please try again."
	missingAttemptMsg  = "Missing attempt ID. Please refresh the page."
)

var (
	ErrClosed           = errors.New("session closed")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrNotActive        = errors.New("session is not active")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrMissingAttempt   = errors.New("missing attempt id")
)

type State string

const (
	StateInitializing State = "initializing"
	StateActive       State = "active"
	StateFinished     State = "finished"
	StateError        State = "error"
)

func (s State) Terminal() bool {
	return s == StateFinished || s == StateError
}

// AttemptService is the part of the backend a session talks to.
type AttemptService interface {
	StartQuiz(ctx context.Context, quizID int) (*models.Attempt, error)
	SubmitAttempt(ctx context.Context, attemptID int, answers []models.Answer) (*models.Attempt, error)
}

func ResultsRoute(quizID, attemptID int) string {
	return fmt.Sprintf("/quiz/results/%d/%d", quizID, attemptID)
}

type Option func(*Session)

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Session) { s.scheduler = scheduler }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session is one timed attempt at a quiz. All state is guarded by mu; backend
// calls are made without holding it.
type Session struct {
	mu sync.Mutex

	id        string
	quizID    int
	service   AttemptService
	scheduler Scheduler
	logger    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state      State
	started    bool
	closed     bool
	attempt    *models.Attempt
	selection  Selection
	budget     int
	remaining  int
	timer      Timer
	generation uint64
	submitting bool

	redirect  string
	errMsg    string
	notice    string
	celebrate bool

	// onTerminal runs with mu held and must not call back into the session.
	onTerminal func(*Session)
}

func New(quizID int, service AttemptService, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		quizID:    quizID,
		service:   service,
		scheduler: SystemScheduler{},
		logger:    log.New(io.Discard, "", 0),
		ctx:       ctx,
		cancel:    cancel,
		state:     StateInitializing,
		selection: Selection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start fetches the attempt and moves the session out of Initializing.
// Backend failures do not come back as errors; they decide the next state.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	service := s.service
	s.mu.Unlock()

	attempt, err := service.StartQuiz(ctx, s.quizID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	switch {
	case errors.Is(err, api.ErrNotFound):
		s.logger.Printf("session %s: quiz %d not found, back to quiz list", s.id, s.quizID)
		s.finishLocked(QuizListRoute, false)
	case err != nil:
		s.logger.Printf("session %s: start quiz %d: %v", s.id, s.quizID, err)
		s.failLocked(err.Error())
	case attempt.Completed():
		s.attempt = attempt
		s.finishLocked(ResultsRoute(s.quizID, attempt.ID), false)
	default:
		s.attempt = attempt
		s.budget = len(attempt.Quiz.Questions) * SecondsPerQuestion
		s.remaining = s.budget
		s.state = StateActive
		s.armLocked()
		s.logger.Printf("session %s: attempt %d active, %ds budget", s.id, attempt.ID, s.budget)
	}
	return nil
}

// Rebind replaces the service used for later backend calls, including the
// automatic submission. A call already in flight keeps the old one.
func (s *Session) Rebind(service AttemptService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.service = service
}

// Toggle applies a selection for the question at position question.
func (s *Session) Toggle(question, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.state != StateActive {
		return ErrNotActive
	}
	questions := s.attempt.Quiz.Questions
	if question < 0 || question >= len(questions) {
		return fmt.Errorf("%w: question %d out of range", ErrInvalidSelection, question)
	}
	if option < 0 || option >= len(questions[question].Options) {
		return fmt.Errorf("%w: option %d out of range for question %d", ErrInvalidSelection, option, question)
	}
	s.selection.Toggle(question, option)
	return nil
}

// Submit sends the current selection. On failure the session stays active and
// the caller may submit again.
func (s *Session) Submit(ctx context.Context) error {
	return s.submit(ctx, "user")
}

func (s *Session) submit(ctx context.Context, trigger string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != StateActive {
		s.mu.Unlock()
		return ErrNotActive
	}
	if s.attempt == nil || s.attempt.ID == 0 {
		s.failLocked(missingAttemptMsg)
		s.mu.Unlock()
		return ErrMissingAttempt
	}
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInProgress
	}
	s.submitting = true
	s.notice = ""
	attemptID := s.attempt.ID
	answers := s.selection.Answers()
	service := s.service
	s.mu.Unlock()

	s.logger.Printf("session %s: submitting attempt %d (%s, %d answers)", s.id, attemptID, trigger, len(answers))
	_, err := service.SubmitAttempt(ctx, attemptID, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.logger.Printf("session %s: submit attempt %d: %v", s.id, attemptID, err)
		s.errMsg = err.Error()
		s.notice = submitFailedNotice
		return err
	}
	s.errMsg = ""
	s.finishLocked(ResultsRoute(s.quizID, attemptID), true)
	return nil
}

// Close unmounts the session: the pending tick is cancelled and any automatic
// submission in flight is aborted.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.cancel()
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if s.closed || s.state != StateActive || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.armLocked()
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.submit(s.ctx, "timer"); err != nil && !errors.Is(err, ErrSubmitInProgress) {
		s.logger.Printf("session %s: automatic submission: %v", s.id, err)
	}
}

func (s *Session) armLocked() {
	s.generation++
	gen := s.generation
	s.timer = s.scheduler.AfterFunc(time.Second, func() { s.tick(gen) })
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

func (s *Session) finishLocked(redirect string, celebrate bool) {
	s.stopTimerLocked()
	s.state = StateFinished
	s.redirect = redirect
	s.celebrate = celebrate
	s.cancel()
	if s.onTerminal != nil {
		s.onTerminal(s)
	}
}

func (s *Session) failLocked(reason string) {
	s.stopTimerLocked()
	s.state = StateError
	s.errMsg = reason
	s.cancel()
	if s.onTerminal != nil {
		s.onTerminal(s)
	}
}
