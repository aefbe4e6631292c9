package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

var (
	// ErrChainBroken signals that the hash chain failed verification.
	ErrChainBroken = errors.New("audit: hash chain is broken")
	// ErrEntryNotFound signals an unknown entry id.
	ErrEntryNotFound = errors.New("audit: entry not found")
)

// genesisHash anchors the chain before the first entry.
const genesisHash = "genesis"

// Entry wraps one audit record with its position in the hash chain.
type Entry struct {
	EntryID      string                `json:"entry_id"`
	Sequence     uint64                `json:"sequence"`
	RecordedAt   time.Time             `json:"recorded_at"`
	Record       contracts.AuditRecord `json:"record"`
	PayloadHash  string                `json:"payload_hash"`
	PreviousHash string                `json:"previous_hash"`
	EntryHash    string                `json:"entry_hash"`
}

// Store is an in-memory append-only audit store with sha256 hash chaining.
// Record payloads are canonicalized (RFC 8785 JCS) before hashing so the
// chain is independent of JSON key ordering.
type Store struct {
	mu        sync.RWMutex
	entries   []*Entry
	byID      map[string]*Entry
	sequence  uint64
	chainHead string
}

// NewStore creates an empty audit store.
func NewStore() *Store {
	return &Store{
		byID:      make(map[string]*Entry),
		chainHead: genesisHash,
	}
}

// Append implements Sink. The entry is immutable once written.
func (s *Store) Append(_ context.Context, rec contracts.AuditRecord) error {
	payloadHash, err := canonicalHash(rec)
	if err != nil {
		return fmt.Errorf("audit: hash record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	entry := &Entry{
		EntryID:      uuid.New().String(),
		Sequence:     s.sequence,
		RecordedAt:   time.Now().UTC(),
		Record:       rec,
		PayloadHash:  payloadHash,
		PreviousHash: s.chainHead,
	}
	entry.EntryHash = chainHash(entry)

	s.chainHead = entry.EntryHash
	s.entries = append(s.entries, entry)
	s.byID[entry.EntryID] = entry
	return nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

// List returns entries in append order, newest last. limit <= 0 means all.
func (s *Store) List(limit int) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.entries)
	if limit > 0 && limit < n {
		return append([]*Entry(nil), s.entries[n-limit:]...)
	}
	return append([]*Entry(nil), s.entries...)
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// VerifyChain walks the chain from genesis and recomputes every hash.
func (s *Store) VerifyChain() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return VerifyEntries(s.entries)
}

// VerifyEntries checks a chain of entries in append order against the
// genesis anchor. It works on exported entries as well as live ones, so an
// archived chain can be re-verified outside the process that built it.
func VerifyEntries(entries []*Entry) error {
	prev := genesisHash
	for _, e := range entries {
		if e.PreviousHash != prev {
			return fmt.Errorf("%w: entry %d links to %q, want %q", ErrChainBroken, e.Sequence, e.PreviousHash, prev)
		}
		payloadHash, err := canonicalHash(e.Record)
		if err != nil {
			return fmt.Errorf("audit: rehash entry %d: %w", e.Sequence, err)
		}
		if payloadHash != e.PayloadHash {
			return fmt.Errorf("%w: entry %d payload hash mismatch", ErrChainBroken, e.Sequence)
		}
		if chainHash(e) != e.EntryHash {
			return fmt.Errorf("%w: entry %d entry hash mismatch", ErrChainBroken, e.Sequence)
		}
		prev = e.EntryHash
	}
	return nil
}

// canonicalHash hashes the JCS canonical JSON form of the record.
func canonicalHash(rec contracts.AuditRecord) (string, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// chainHash binds an entry to its predecessor.
func chainHash(e *Entry) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", e.Sequence, e.PayloadHash, e.PreviousHash)))
	return hex.EncodeToString(sum[:])
}
