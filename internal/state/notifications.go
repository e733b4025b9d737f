package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/example/roombook/internal/api"
	"github.com/example/roombook/internal/logging"
)

// NotificationsClient is the slice of the API client the notifications store
// depends on.
type NotificationsClient interface {
	MyNotifications(ctx context.Context) (api.NotificationFeed, error)
	MarkAllNotificationsSeen(ctx context.Context) error
	MarkNotificationSeen(ctx context.Context, id int) (api.Notification, error)
}

// NotificationsStore caches the notification snapshot. Unlike the other
// collections, read-state transitions patch the local items directly: the
// seen flip is the one mutation whose result the client already knows.
type NotificationsStore struct {
	client NotificationsClient
	notify Notifier
	logger *slog.Logger

	mu      sync.RWMutex
	items   []api.Notification
	loading bool
	errMsg  string
}

// NewNotificationsStore constructs an empty notifications store.
func NewNotificationsStore(client NotificationsClient, notify Notifier) *NotificationsStore {
	return NewNotificationsStoreWithLogger(client, notify, nil)
}

// NewNotificationsStoreWithLogger constructs a notifications store with a
// specified logger.
func NewNotificationsStoreWithLogger(client NotificationsClient, notify Notifier, logger *slog.Logger) *NotificationsStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationsStore{client: client, notify: notify, logger: logger}
}

func (s *NotificationsStore) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.Scope(ctx, s.logger, "NotificationsStore", operation, attrs...)
}

// Notifications returns a copy of the current snapshot.
func (s *NotificationsStore) Notifications() []api.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Notification(nil), s.items...)
}

// UnseenCount is always derived from the local items, never tracked as its
// own counter, so it cannot drift from the snapshot.
func (s *NotificationsStore) UnseenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, item := range s.items {
		if item.Status == api.NotificationUnseen {
			count++
		}
	}
	return count
}

// Loading reports whether a fetch is in flight.
func (s *NotificationsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed fetch, or the empty string.
func (s *NotificationsStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Fetch replaces the entire snapshot with the server's listing.
func (s *NotificationsStore) Fetch(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("notifications store is nil")
	}

	logger := s.loggerWith(ctx, "Fetch")
	s.beginFetch()
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to fetch notifications", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.With("count", len(s.Notifications()), "unseen", s.UnseenCount()).InfoContext(ctx, "notifications fetched")
	}()

	feed, err := s.client.MyNotifications(ctx)
	if err != nil {
		s.finishFetch(nil, api.Message(err))
		return err
	}
	s.finishFetch(feed.Items, "")

	if feed.UnseenCount != s.UnseenCount() {
		logger.WarnContext(ctx, "server unseen count disagrees with snapshot",
			"server", feed.UnseenCount, "derived", s.UnseenCount())
	}
	return nil
}

// MarkSeen flips one notification to seen. Viewing an already seen
// notification is a no-op: no network call, no state change. On failure the
// local state is left untouched and the error is surfaced.
func (s *NotificationsStore) MarkSeen(ctx context.Context, id int) (err error) {
	if s == nil {
		return fmt.Errorf("notifications store is nil")
	}

	s.mu.RLock()
	var found bool
	var alreadySeen bool
	for _, item := range s.items {
		if item.ID == id {
			found = true
			alreadySeen = item.Status == api.NotificationSeen
			break
		}
	}
	s.mu.RUnlock()

	if found && alreadySeen {
		return nil
	}

	logger := s.loggerWith(ctx, "MarkSeen", "notification_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to mark notification seen", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "notification marked seen")
	}()

	updated, err := s.client.MarkNotificationSeen(ctx, id)
	if err != nil {
		s.notifyFail(uuid.NewString(), api.Message(err))
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated
			s.items[i].Status = api.NotificationSeen
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// MarkAllSeen flips every local notification to seen. When nothing is unseen
// the operation is skipped entirely, without a network call. On failure the
// local state is left untouched.
func (s *NotificationsStore) MarkAllSeen(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("notifications store is nil")
	}

	if s.UnseenCount() == 0 {
		return nil
	}

	logger := s.loggerWith(ctx, "MarkAllSeen")
	actionID := uuid.NewString()
	defer func() {
		if err != nil {
			s.notifyFail(actionID, "Төлөвийг шинэчилж чадсангүй.")
			logger.ErrorContext(ctx, "failed to mark all notifications seen", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		s.notifySucceed(actionID, "Бүх мэдэгдлийг уншсан болголоо.")
		logger.InfoContext(ctx, "all notifications marked seen")
	}()

	if err = s.client.MarkAllNotificationsSeen(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		s.items[i].Status = api.NotificationSeen
	}
	s.mu.Unlock()
	return nil
}

func (s *NotificationsStore) beginFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.errMsg = ""
}

func (s *NotificationsStore) finishFetch(items []api.Notification, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.items = items
	s.errMsg = errMsg
}

func (s *NotificationsStore) notifySucceed(id, message string) {
	if s.notify != nil {
		s.notify.Succeed(id, message)
	}
}

func (s *NotificationsStore) notifyFail(id, message string) {
	if s.notify != nil {
		s.notify.Fail(id, message)
	}
}
