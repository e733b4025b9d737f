// Package state holds the in-memory collection snapshots the view layer
// renders. Every collection is fully replaced on fetch, never merged, and
// every mutation is followed by a refetch of the owning collection, so the
// view is never more than one round-trip behind the server.
package state

// Notifier surfaces progress for a single user action. The id ties the
// loading, success, and failure indicators of one action together so
// concurrent unrelated actions never collide.
type Notifier interface {
	Begin(actionID, message string)
	Succeed(actionID, message string)
	Fail(actionID, message string)
}
