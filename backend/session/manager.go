package session

import (
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	owner   string
	session *Session
	idle    Timer
	touched uint64
}

// Manager keeps the mounted sessions of every caller. A session is only
// visible to the owner that mounted it.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	retention   time.Duration
	idleTimeout time.Duration
	scheduler   Scheduler
	logger      *log.Logger
}

type ManagerOption func(*Manager)

func WithManagerScheduler(scheduler Scheduler) ManagerOption {
	return func(m *Manager) { m.scheduler = scheduler }
}

func WithManagerLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithIdleTimeout drops sessions nobody has looked up for d. Zero disables it.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleTimeout = d }
}

// NewManager keeps finished sessions around for retention so their redirect
// can still be read.
func NewManager(retention time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:  make(map[string]*entry),
		retention: retention,
		scheduler: SystemScheduler{},
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount registers a new session in Initializing. The caller runs Start.
func (m *Manager) Mount(owner string, quizID int, service AttemptService) *Session {
	id := uuid.NewString()
	s := New(quizID, service,
		WithID(id),
		WithScheduler(m.scheduler),
		WithLogger(m.logger),
	)
	s.onTerminal = func(*Session) {
		m.scheduler.AfterFunc(m.retention, func() { m.drop(id) })
	}

	e := &entry{owner: owner, session: s}
	m.mu.Lock()
	m.sessions[id] = e
	m.touchLocked(id, e)
	m.mu.Unlock()
	return s
}

func (m *Manager) Get(owner, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || e.owner != owner {
		return nil, ErrSessionNotFound
	}
	m.touchLocked(id, e)
	return e.session, nil
}

// Unmount closes and forgets the session.
func (m *Manager) Unmount(owner, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok || e.owner != owner {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	stopIdle(e)
	m.mu.Unlock()

	e.session.Close()
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	for _, e := range sessions {
		stopIdle(e)
	}
	m.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}

func (m *Manager) drop(id string) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		stopIdle(e)
	}
	m.mu.Unlock()

	if ok {
		e.session.Close()
	}
}

// touchLocked restarts the idle countdown of the entry.
func (m *Manager) touchLocked(id string, e *entry) {
	if m.idleTimeout <= 0 {
		return
	}
	stopIdle(e)
	e.touched++
	touched := e.touched
	e.idle = m.scheduler.AfterFunc(m.idleTimeout, func() { m.expire(id, touched) })
}

func (m *Manager) expire(id string, touched uint64) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok || e.touched != touched {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	m.logger.Printf("session %s: idle for %s, dropped in state %s", id, m.idleTimeout, e.session.State())
	e.session.Close()
}

func stopIdle(e *entry) {
	if e.idle != nil {
		e.idle.Stop()
		e.idle = nil
	}
}
