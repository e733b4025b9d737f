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

// RoomsClient is the slice of the API client the rooms store depends on.
type RoomsClient interface {
	ListRooms(ctx context.Context, query api.RoomQuery) ([]api.Room, error)
	CreateRoom(ctx context.Context, payload api.RoomPayload) (api.Room, error)
	UpdateRoom(ctx context.Context, id int, payload api.RoomPayload) (api.Room, error)
	DeleteRoom(ctx context.Context, id int) error
	AddRoomImage(ctx context.Context, payload api.AddImagePayload) (api.RoomImage, error)
	DeleteRoomImage(ctx context.Context, id int) error
}

// RoomsStore caches the room catalog snapshot.
type RoomsStore struct {
	client RoomsClient
	notify Notifier
	logger *slog.Logger

	mu      sync.RWMutex
	rooms   []api.Room
	loading bool
	errMsg  string
}

// NewRoomsStore constructs an empty rooms store.
func NewRoomsStore(client RoomsClient, notify Notifier) *RoomsStore {
	return NewRoomsStoreWithLogger(client, notify, nil)
}

// NewRoomsStoreWithLogger constructs a rooms store with a specified logger.
func NewRoomsStoreWithLogger(client RoomsClient, notify Notifier, logger *slog.Logger) *RoomsStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomsStore{client: client, notify: notify, logger: logger}
}

func (s *RoomsStore) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.Scope(ctx, s.logger, "RoomsStore", operation, attrs...)
}

// Rooms returns a copy of the current snapshot.
func (s *RoomsStore) Rooms() []api.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Room(nil), s.rooms...)
}

// Loading reports whether a fetch is in flight.
func (s *RoomsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed fetch, or the empty string.
func (s *RoomsStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Fetch replaces the entire snapshot with the server's listing. On failure
// the previous snapshot is discarded and the error message recorded; stale
// data is never kept past a failed refresh.
func (s *RoomsStore) Fetch(ctx context.Context, query api.RoomQuery) (err error) {
	if s == nil {
		return fmt.Errorf("rooms store is nil")
	}

	logger := s.loggerWith(ctx, "Fetch")
	s.beginFetch()
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to fetch rooms", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		logger.With("count", len(s.Rooms())).InfoContext(ctx, "rooms fetched")
	}()

	rooms, err := s.client.ListRooms(ctx, query)
	if err != nil {
		s.finishFetch(nil, api.Message(err))
		return err
	}
	s.finishFetch(rooms, "")
	return nil
}

// Create adds a room and refetches the catalog.
func (s *RoomsStore) Create(ctx context.Context, payload api.RoomPayload) (api.Room, error) {
	room, err := s.mutate(ctx, "Create",
		"Өрөө үүсгэж байна...", "Өрөө амжилттай үүслээ.",
		func() (api.Room, error) { return s.client.CreateRoom(ctx, payload) })
	return room, err
}

// Update replaces a room's fields and refetches the catalog.
func (s *RoomsStore) Update(ctx context.Context, id int, payload api.RoomPayload) (api.Room, error) {
	room, err := s.mutate(ctx, "Update",
		"Өрөөг шинэчилж байна...", "Өрөө амжилттай шинэчлэгдлээ.",
		func() (api.Room, error) { return s.client.UpdateRoom(ctx, id, payload) })
	return room, err
}

// Delete removes a room and refetches the catalog. The delete response body
// is empty; removal is observed through the refetched listing.
func (s *RoomsStore) Delete(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, "Delete",
		"Өрөөг устгаж байна...", "Өрөө амжилттай устлаа.",
		func() (api.Room, error) { return api.Room{}, s.client.DeleteRoom(ctx, id) })
	return err
}

// AddImage attaches an image to a room and refetches the catalog; the parent
// room's image list is refreshed through the listing, not patched locally.
func (s *RoomsStore) AddImage(ctx context.Context, payload api.AddImagePayload) error {
	_, err := s.mutate(ctx, "AddImage",
		"Зураг нэмж байна...", "Зураг амжилттай нэмэгдлээ.",
		func() (api.Room, error) {
			_, addErr := s.client.AddRoomImage(ctx, payload)
			return api.Room{}, addErr
		})
	return err
}

// DeleteImage removes a room image and refetches the catalog.
func (s *RoomsStore) DeleteImage(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, "DeleteImage",
		"Зургийг устгаж байна...", "Зураг амжилттай устлаа.",
		func() (api.Room, error) { return api.Room{}, s.client.DeleteRoomImage(ctx, id) })
	return err
}

// mutate runs one mutating call with action scoped progress indication and
// then refetches the whole collection regardless of outcome, so local state
// resynchronizes even after a rejected mutation.
func (s *RoomsStore) mutate(ctx context.Context, operation, pending, done string, call func() (api.Room, error)) (room api.Room, err error) {
	logger := s.loggerWith(ctx, operation)
	actionID := uuid.NewString()
	s.notifyBegin(actionID, pending)
	defer func() {
		if err != nil {
			s.notifyFail(actionID, api.Message(err))
			logger.ErrorContext(ctx, "room mutation failed", "error", err, "error_kind", api.ErrorKind(err))
			return
		}
		s.notifySucceed(actionID, done)
		logger.InfoContext(ctx, "room mutation applied")
	}()

	room, err = call()

	if fetchErr := s.Fetch(ctx, api.RoomQuery{}); fetchErr != nil && err == nil {
		err = fetchErr
	}
	return room, err
}

func (s *RoomsStore) beginFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.errMsg = ""
}

func (s *RoomsStore) finishFetch(rooms []api.Room, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.rooms = rooms
	s.errMsg = errMsg
}

func (s *RoomsStore) notifyBegin(id, message string) {
	if s.notify != nil {
		s.notify.Begin(id, message)
	}
}

func (s *RoomsStore) notifySucceed(id, message string) {
	if s.notify != nil {
		s.notify.Succeed(id, message)
	}
}

func (s *RoomsStore) notifyFail(id, message string) {
	if s.notify != nil {
		s.notify.Fail(id, message)
	}
}
