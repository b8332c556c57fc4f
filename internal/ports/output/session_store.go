package output

import "review-replier/internal/domain"

// SessionStore interface - Output port
// Defines what the conversation controller needs for per-(chat, user) state.
// Sessions live for the lifetime of the process. Implementations must be
// thread-safe for concurrent access.
type SessionStore interface {
	// Get returns a copy of the session, or the zero session when none exists.
	// It never fails.
	Get(key domain.SessionKey) domain.SessionData

	// Update applies mutate to the stored session, creating it if absent.
	Update(key domain.SessionKey, mutate func(*domain.SessionData))

	// Reset clears the session wholesale.
	Reset(key domain.SessionKey)

	// Lock serializes event handling for one key. Callers hold the lock for the
	// whole read-modify-write of an event, remote calls included; other keys
	// are not blocked. The returned func releases the lock.
	Lock(key domain.SessionKey) (unlock func())
}
