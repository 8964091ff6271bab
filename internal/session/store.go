// Package session tracks each user's pending conversion intent and, for
// merge intents, the documents accumulated so far. The store is keyed by
// user id and sharded so independent users never contend on one lock.
package session

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rapidfileconvert/convertbot/internal/domain"
	"github.com/rapidfileconvert/convertbot/internal/workspace"
)

// MergeFile pairs an accumulated upload with the workspace that owns it.
// The dispatcher frees the workspace when the session reaches a terminal
// state or is overwritten.
type MergeFile struct {
	Handle    domain.FileHandle
	Workspace *workspace.Workspace
}

// Session is one user's pending conversion state. At most one live session
// exists per user; it is removed on every terminal outcome.
type Session struct {
	UserID     int64
	Intent     domain.IntentKind
	MergeFiles []MergeFile
	CreatedAt  time.Time

	// processing serializes a single user's uploads: a second upload is
	// refused until the in-flight conversion reaches a terminal state.
	processing bool

	// cancelled marks an in-flight conversion whose eventual result must be
	// discarded. The external engine call is not preempted; cleanup happens
	// when it returns.
	cancelled bool
}

// InFlight reports whether a conversion was running when this session was
// detached from the store. Only meaningful on sessions returned by SetIntent
// or Clear.
func (s *Session) InFlight() bool {
	return s.processing
}

const shardCount = 16

type shard struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// Store is a sharded per-user session map.
type Store struct {
	shards [shardCount]*shard
}

// NewStore creates an empty session store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[int64]*Session)}
	}
	return s
}

func (s *Store) shardFor(userID int64) *shard {
	h := fnv.New32a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(userID))
	h.Write(buf[:])
	return s.shards[h.Sum32()%shardCount]
}

// SetIntent replaces any existing session for the user with a fresh one
// holding kind. It returns the replaced session, if any, so the caller can
// free workspaces the discarded session still owned.
func (s *Store) SetIntent(userID int64, kind domain.IntentKind) (replaced *Session) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	replaced = sh.sessions[userID]
	next := &Session{
		UserID:    userID,
		Intent:    kind,
		CreatedAt: time.Now(),
	}
	if kind == domain.IntentMerge {
		next.MergeFiles = []MergeFile{}
	}
	sh.sessions[userID] = next
	return replaced
}

// Intent returns the user's pending intent, or IntentNone when the user has
// no live session.
func (s *Store) Intent(userID int64) domain.IntentKind {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[userID]
	if !ok {
		return domain.IntentNone
	}
	return sess.Intent
}

// AppendMergeFile adds an upload to the user's merge accumulation in upload
// order. It fails with NoMergeSession when the user's pending intent is not
// a merge.
func (s *Store) AppendMergeFile(userID int64, file MergeFile) error {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[userID]
	if !ok || sess.Intent != domain.IntentMerge {
		return domain.NoMergeSessionError()
	}
	sess.MergeFiles = append(sess.MergeFiles, file)
	return nil
}

// MergeFiles returns a snapshot of the user's accumulated merge files in
// upload order. It fails with NoMergeSession when no merge session exists.
func (s *Store) MergeFiles(userID int64) ([]MergeFile, error) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[userID]
	if !ok || sess.Intent != domain.IntentMerge {
		return nil, domain.NoMergeSessionError()
	}
	out := make([]MergeFile, len(sess.MergeFiles))
	copy(out, sess.MergeFiles)
	return out, nil
}

// BeginProcessing marks the user's session as having an in-flight
// conversion and returns the session so the caller can later settle exactly
// that session with ClearExact. It reports false when there is no session or
// a conversion is already in flight.
func (s *Store) BeginProcessing(userID int64) (*Session, bool) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[userID]
	if !ok || sess.processing {
		return nil, false
	}
	sess.processing = true
	return sess, true
}

// MarkCancelled flags the user's in-flight conversion so its result is
// discarded when the engine call returns. Reports false when the user has no
// conversion in flight.
func (s *Store) MarkCancelled(userID int64) bool {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[userID]
	if !ok || !sess.processing {
		return false
	}
	sess.cancelled = true
	return true
}

// ClearExact removes the user's session only if the store still holds the
// given session, so a completion handler never clears a session the user has
// since replaced. It reports whether the finished conversion was cancelled
// or superseded, in which case the caller must discard its result.
func (s *Store) ClearExact(userID int64, sess *Session) (discard bool) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	cur, ok := sh.sessions[userID]
	if ok && cur == sess {
		delete(sh.sessions, userID)
		return sess.cancelled
	}
	// Session was replaced or cleared while the conversion ran.
	return true
}

// Processing reports whether the user has an in-flight conversion.
func (s *Store) Processing(userID int64) bool {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.sessions[userID]
	return ok && sess.processing
}

// Clear removes the user's session and returns it so the caller can free
// any workspaces it still owned. Returns nil when no session existed.
func (s *Store) Clear(userID int64) *Session {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess := sh.sessions[userID]
	delete(sh.sessions, userID)
	return sess
}

// Len returns the number of live sessions across all shards.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.sessions)
		sh.mu.Unlock()
	}
	return n
}
