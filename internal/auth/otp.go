package auth

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

// PasscodeStore keeps outstanding password-reset codes in process
// memory. A restart invalidates all outstanding codes. The store is
// injectable so tests get a fresh instance each time.
type PasscodeStore struct {
	mu      sync.Mutex
	entries map[string]passcodeEntry
	ttl     time.Duration
	rng     *rand.Rand
	now     func() time.Time
}

type passcodeEntry struct {
	userID    string
	expiresAt time.Time
}

// NewPasscodeStore builds a store whose codes live for the given TTL.
func NewPasscodeStore(ttlMinutes int) *PasscodeStore {
	if ttlMinutes <= 0 {
		ttlMinutes = 10
	}
	return &PasscodeStore{
		entries: make(map[string]passcodeEntry),
		ttl:     time.Duration(ttlMinutes) * time.Minute,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Issue generates a 6-digit zero-padded code bound to the given login
// id. Uniqueness is not guaranteed; a colliding code overwrites the
// previous entry (last write wins).
func (s *PasscodeStore) Issue(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := fmt.Sprintf("%06d", s.rng.Intn(1000000))
	s.entries[code] = passcodeEntry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return code
}

// Redeem consumes a code and returns the login id it was bound to.
// Check-and-remove happens in one critical section: of two concurrent
// redemptions of the same code, exactly one succeeds. Expired entries
// are removed on the way out.
func (s *PasscodeStore) Redeem(code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[code]
	if !ok {
		return "", apperrors.NewInvalidOrExpiredCode("Invalid or expired OTP")
	}
	delete(s.entries, code)
	if s.now().After(entry.expiresAt) {
		return "", apperrors.NewInvalidOrExpiredCode("Invalid or expired OTP")
	}
	return entry.userID, nil
}

// Outstanding reports how many codes are currently stored, counting
// expired entries that have not been lazily collected yet.
func (s *PasscodeStore) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
