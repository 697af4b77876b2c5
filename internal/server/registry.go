package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"hash/maphash"
	mrand "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/mines"
)

func createRand() *mrand.Rand {
	return mrand.New(mrand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func newSessionId() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// entry owns one game. Its mutex serialises every access to the session.
type entry struct {
	mu       sync.Mutex
	id       string
	session  *mines.Session
	lastSeen atomic.Int64
}

// Registry keeps the live game sessions in memory. Sessions idle for longer
// than the ttl are dropped by Sweep.
type Registry struct {
	log      *logrus.Logger
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	newRand  func() *mrand.Rand
}

func NewRegistry(log *logrus.Logger, ttl time.Duration) *Registry {
	return &Registry{
		log:      log,
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		newRand:  createRand,
	}
}

// create starts a session with a new game of the given parameters.
func (r *Registry) create(params mines.GameParams) (*entry, error) {
	s := mines.NewSession(r.newRand())
	if err := s.NewGame(params); err != nil {
		return nil, err
	}
	e := &entry{id: newSessionId(), session: s}
	r.touch(e)

	r.mu.Lock()
	r.sessions[e.id] = e
	n := len(r.sessions)
	r.mu.Unlock()

	activeSessions.Set(float64(n))
	return e, nil
}

// get returns the session with the given id and marks it as seen.
func (r *Registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		r.touch(e)
	}
	return e, ok
}

func (r *Registry) touch(e *entry) {
	e.lastSeen.Store(r.now().UnixNano())
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops the sessions idle for longer than the ttl and returns how many
// were dropped.
func (r *Registry) Sweep() int {
	deadline := r.now().Add(-r.ttl).UnixNano()

	r.mu.Lock()
	dropped := 0
	for id, e := range r.sessions {
		if e.lastSeen.Load() < deadline {
			delete(r.sessions, id)
			dropped++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	activeSessions.Set(float64(n))
	return dropped
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.WithField("dropped", n).Debug("swept idle sessions")
			}
		}
	}
}
