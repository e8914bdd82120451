// Package session holds the observable "am I signed in" state of the client.
package session

import (
	"sync"

	"github.com/dtroode/emotion-log/internal/model"
)

// Snapshot is the state at one point in time.
type Snapshot struct {
	Authenticated bool
	Profile       *model.Profile
}

// State is shared by every component that needs to know whether the user is signed in.
// A profile is only ever held while authenticated.
//
// Subscribers run outside the lock and only when the snapshot actually changed. Each subscriber
// sees changes in order and always ends on the latest snapshot: a change that arrives while the
// subscriber is still handling an earlier one is delivered by the goroutine already delivering,
// and intermediate snapshots may be skipped.
type State struct {
	mu            sync.Mutex
	authenticated bool
	profile       *model.Profile
	epoch         uint64
	version       uint64
	nextID        int
	subscribers   map[int]*subscriber
}

// New returns a State with the given initial authentication flag and no profile.
func New(authenticated bool) *State {
	return &State{
		authenticated: authenticated,
		subscribers:   make(map[int]*subscriber),
	}
}

// Authenticated reports whether a token is believed to be stored.
func (s *State) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authenticated
}

// CurrentProfile returns a copy of the cached profile, or nil.
func (s *State) CurrentProfile() *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyProfile(s.profile)
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Epoch identifies the current signed-in period. It changes every time the state becomes authenticated.
func (s *State) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.epoch
}

// SetAuthenticated flips the authentication flag. Becoming authenticated starts a new epoch.
// Becoming unauthenticated drops the cached profile.
func (s *State) SetAuthenticated(v bool) {
	s.mu.Lock()
	if s.authenticated == v {
		s.mu.Unlock()
		return
	}
	s.authenticated = v
	s.profile = nil
	if v {
		s.epoch++
	}
	s.notifyUnlock()
}

// Authenticate marks the state authenticated and starts a new epoch even when it already was,
// dropping any cached profile. It returns the new epoch.
func (s *State) Authenticate() uint64 {
	s.mu.Lock()
	changed := !s.authenticated || s.profile != nil
	s.authenticated = true
	s.profile = nil
	s.epoch++
	epoch := s.epoch
	if !changed {
		s.mu.Unlock()
		return epoch
	}
	s.notifyUnlock()
	return epoch
}

// SetProfile replaces the cached profile. A non-nil profile is ignored while unauthenticated.
func (s *State) SetProfile(p *model.Profile) {
	s.mu.Lock()
	s.setProfileLocked(p)
}

// SetProfileAt sets the profile only if the state is still in the given epoch.
// It reports whether the profile was accepted.
func (s *State) SetProfileAt(epoch uint64, p *model.Profile) bool {
	s.mu.Lock()
	if s.epoch != epoch || !s.authenticated {
		s.mu.Unlock()
		return false
	}
	s.setProfileLocked(p)
	return true
}

// Subscribe registers fn for every change. The returned function removes it.
func (s *State) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = &subscriber{fn: fn}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// setProfileLocked must be called with mu held and releases it.
func (s *State) setProfileLocked(p *model.Profile) {
	if p != nil && !s.authenticated {
		s.mu.Unlock()
		return
	}
	if equalProfile(s.profile, p) {
		s.mu.Unlock()
		return
	}
	s.profile = copyProfile(p)
	s.notifyUnlock()
}

// notifyUnlock releases mu and then calls subscribers with the new snapshot.
func (s *State) notifyUnlock() {
	s.version++
	version := s.version
	snap := s.snapshotLocked()
	subs := make([]*subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.offer(version, snap)
	}
}

// subscriber serializes deliveries to one callback and keeps only the newest pending snapshot.
type subscriber struct {
	fn func(Snapshot)

	mu         sync.Mutex
	delivered  uint64
	pending    *Snapshot
	pendingVer uint64
	draining   bool
}

func (sub *subscriber) offer(version uint64, snap Snapshot) {
	sub.mu.Lock()
	if version <= sub.delivered || (sub.pending != nil && version <= sub.pendingVer) {
		sub.mu.Unlock()
		return
	}
	sub.pending = &snap
	sub.pendingVer = version
	if sub.draining {
		sub.mu.Unlock()
		return
	}

	sub.draining = true
	defer func() {
		sub.draining = false
		sub.mu.Unlock()
	}()

	for sub.pending != nil {
		next := *sub.pending
		sub.delivered = sub.pendingVer
		sub.pending = nil

		sub.mu.Unlock()
		sub.fn(next)
		sub.mu.Lock()
	}
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{Authenticated: s.authenticated, Profile: copyProfile(s.profile)}
}

func copyProfile(p *model.Profile) *model.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func equalProfile(a, b *model.Profile) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
