// Package session holds the client's session record: the latest results of
// the signup and login calls.
//
// A Store is constructed once at start-up and passed to whoever needs it.
// Every mutation is written through to a storage.Backend as a single JSON
// document keyed by the store namespace, so a later process can Hydrate it.
// Subscribers are notified synchronously after each change.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/yogayukt/internal/client/storage"
	"github.com/dmitrijs2005/yogayukt/internal/common"
	"github.com/dmitrijs2005/yogayukt/internal/logging"
)

// Result is the stored outcome of one backend call.
type Result struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body,omitempty"`
}

func (r *Result) clone() *Result {
	if r == nil {
		return nil
	}
	return &Result{StatusCode: r.StatusCode, Body: bytes.Clone(r.Body)}
}

func (r *Result) equal(o *Result) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.StatusCode == o.StatusCode && bytes.Equal(r.Body, o.Body)
}

// Record is a snapshot of the session. Nil slots are empty.
type Record struct {
	Signup *Result `json:"signup,omitempty"`
	Login  *Result `json:"login,omitempty"`
}

func (r Record) clone() Record {
	return Record{Signup: r.Signup.clone(), Login: r.Login.clone()}
}

type subscriber struct {
	id uint64
	fn func(Record)
}

type Store struct {
	// writeMu orders mutations with their writes to the backend, so the
	// persisted record always matches the last in-memory change.
	writeMu sync.Mutex
	mu      sync.RWMutex
	record  Record
	backend storage.Backend
	key     string
	log     logging.Logger
	subs    []subscriber
	nextID  uint64
}

// New returns an empty store persisting to backend. A nil backend keeps the
// session in memory only.
func New(backend storage.Backend, log logging.Logger) *Store {
	return &Store{
		backend: backend,
		key:     common.StoreNamespace,
		log:     log.With("component", "session"),
	}
}

// Hydrate replaces the in-memory record with the persisted one, if any.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}

	snap, found, err := s.load(ctx)
	if err != nil || !found {
		return err
	}

	s.log.Debug(ctx, "session hydrated", "signup", snap.Signup != nil, "login", snap.Login != nil)
	s.notify(snap)
	return nil
}

func (s *Store) load(ctx context.Context) (Record, bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return Record{}, false, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return Record{}, false, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decode session: %w", err)
	}

	s.mu.Lock()
	s.record = rec
	snap := s.record.clone()
	s.mu.Unlock()
	return snap, true, nil
}

// State returns a copy of the current record.
func (s *Store) State() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.clone()
}

// SetSignupResult overwrites the signup slot.
func (s *Store) SetSignupResult(ctx context.Context, r Result) error {
	return s.update(ctx, "signup", func(rec *Record) bool {
		if rec.Signup.equal(&r) {
			return false
		}
		rec.Signup = r.clone()
		return true
	})
}

// SetLoginResult overwrites the login slot.
func (s *Store) SetLoginResult(ctx context.Context, r Result) error {
	return s.update(ctx, "login", func(rec *Record) bool {
		if rec.Login.equal(&r) {
			return false
		}
		rec.Login = r.clone()
		return true
	})
}

// Clear empties the signup slot only; the login slot is left as is.
// Use ClearAll to reset both.
func (s *Store) Clear(ctx context.Context) error {
	return s.update(ctx, "clear", func(rec *Record) bool {
		if rec.Signup == nil {
			return false
		}
		rec.Signup = nil
		return true
	})
}

// ClearAll empties both slots.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.update(ctx, "clear_all", func(rec *Record) bool {
		if rec.Signup == nil && rec.Login == nil {
			return false
		}
		*rec = Record{}
		return true
	})
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Record)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// update applies mutate under the lock. When mutate reports a change the
// new record is persisted and subscribers are notified. Writers are
// serialised from mutate to the end of persist. The in-memory change
// stands even if persisting fails.
func (s *Store) update(ctx context.Context, op string, mutate func(*Record) bool) error {
	s.writeMu.Lock()
	s.mu.Lock()
	if !mutate(&s.record) {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return nil
	}
	snap := s.record.clone()
	s.mu.Unlock()

	err := s.persist(ctx, snap)
	s.writeMu.Unlock()
	if err != nil {
		s.log.Warn(ctx, "session not persisted", "op", op, "error", err)
	}
	s.notify(snap)
	return err
}

func (s *Store) persist(ctx context.Context, rec Record) error {
	if s.backend == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) notify(rec Record) {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(rec.clone())
	}
}
