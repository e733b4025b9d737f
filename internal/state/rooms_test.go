package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/roombook/internal/api"
	"github.com/example/roombook/internal/testfixtures"
)

type actionRecord struct {
	actionID string
	message  string
}

type actionNotifierStub struct {
	mu        sync.Mutex
	begun     []actionRecord
	succeeded []actionRecord
	failed    []actionRecord
}

func (n *actionNotifierStub) Begin(actionID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.begun = append(n.begun, actionRecord{actionID, message})
}

func (n *actionNotifierStub) Succeed(actionID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.succeeded = append(n.succeeded, actionRecord{actionID, message})
}

func (n *actionNotifierStub) Fail(actionID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, actionRecord{actionID, message})
}

type roomsClientStub struct {
	rooms   []api.Room
	listErr error

	created   api.Room
	createErr error
	deleteErr error

	listCalls    int
	lastQuery    api.RoomQuery
	deletedIDs   []int
	imageAdds    []api.AddImagePayload
	imageDeletes []int
}

func (c *roomsClientStub) ListRooms(_ context.Context, query api.RoomQuery) ([]api.Room, error) {
	c.listCalls++
	c.lastQuery = query
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.rooms, nil
}

func (c *roomsClientStub) CreateRoom(context.Context, api.RoomPayload) (api.Room, error) {
	if c.createErr != nil {
		return api.Room{}, c.createErr
	}
	return c.created, nil
}

func (c *roomsClientStub) UpdateRoom(_ context.Context, id int, _ api.RoomPayload) (api.Room, error) {
	return api.Room{ID: id}, nil
}

func (c *roomsClientStub) DeleteRoom(_ context.Context, id int) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deletedIDs = append(c.deletedIDs, id)
	remaining := c.rooms[:0]
	for _, room := range c.rooms {
		if room.ID != id {
			remaining = append(remaining, room)
		}
	}
	c.rooms = remaining
	return nil
}

func (c *roomsClientStub) AddRoomImage(_ context.Context, payload api.AddImagePayload) (api.RoomImage, error) {
	c.imageAdds = append(c.imageAdds, payload)
	return api.RoomImage{ID: 1, RoomID: payload.RoomID, ImageURL: payload.ImageURL}, nil
}

func (c *roomsClientStub) DeleteRoomImage(_ context.Context, id int) error {
	c.imageDeletes = append(c.imageDeletes, id)
	return nil
}

func TestRoomsStoreFetch(t *testing.T) {
	t.Parallel()

	t.Run("replaces the snapshot with the listing", func(t *testing.T) {
		t.Parallel()

		first := testfixtures.NewRoom()
		second := testfixtures.NewRoom()
		client := &roomsClientStub{rooms: []api.Room{first, second}}
		store := NewRoomsStore(client, nil)

		if err := store.Fetch(context.Background(), api.RoomQuery{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := store.Rooms(); len(got) != 2 || got[0].ID != first.ID {
			t.Fatalf("expected the fetched snapshot, got %v", got)
		}
		if store.Loading() {
			t.Fatal("expected loading to be cleared")
		}
	})

	t.Run("forwards the filters to the listing endpoint", func(t *testing.T) {
		t.Parallel()

		client := &roomsClientStub{}
		store := NewRoomsStore(client, nil)

		query := api.RoomQuery{Keyword: "семинар", Capacity: 20}
		if err := store.Fetch(context.Background(), query); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.lastQuery != query {
			t.Fatalf("expected query %+v to be forwarded, got %+v", query, client.lastQuery)
		}
	})

	t.Run("discards the previous snapshot when the refresh fails", func(t *testing.T) {
		t.Parallel()

		client := &roomsClientStub{rooms: []api.Room{testfixtures.NewRoom()}}
		store := NewRoomsStore(client, nil)
		if err := store.Fetch(context.Background(), api.RoomQuery{}); err != nil {
			t.Fatalf("seed fetch failed: %v", err)
		}

		client.listErr = &api.Error{Op: "rooms.list", Kind: api.KindTransport, Message: "Сервертэй холбогдож чадсангүй."}
		if err := store.Fetch(context.Background(), api.RoomQuery{}); !errors.Is(err, api.ErrUnreachable) {
			t.Fatalf("expected unreachable error, got %v", err)
		}
		if got := store.Rooms(); len(got) != 0 {
			t.Fatalf("expected stale rooms to be discarded, got %v", got)
		}
		if store.Err() != "Сервертэй холбогдож чадсангүй." {
			t.Fatalf("expected the normalized message to be recorded, got %q", store.Err())
		}
	})
}

func TestRoomsStoreMutations(t *testing.T) {
	t.Parallel()

	t.Run("delete refetches the catalog and the removed room is gone", func(t *testing.T) {
		t.Parallel()

		doomed := testfixtures.NewRoom(testfixtures.WithRoomID(7))
		client := &roomsClientStub{rooms: []api.Room{testfixtures.NewRoom(), doomed}}
		store := NewRoomsStore(client, &actionNotifierStub{})
		if err := store.Fetch(context.Background(), api.RoomQuery{}); err != nil {
			t.Fatalf("seed fetch failed: %v", err)
		}

		if err := store.Delete(context.Background(), 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, room := range store.Rooms() {
			if room.ID == 7 {
				t.Fatal("expected room 7 to be absent from the refetched snapshot")
			}
		}
		if client.listCalls != 2 {
			t.Fatalf("expected a refetch after the delete, got %d listings", client.listCalls)
		}
	})

	t.Run("create returns the created room and refreshes the snapshot", func(t *testing.T) {
		t.Parallel()

		created := testfixtures.NewRoom()
		client := &roomsClientStub{created: created, rooms: []api.Room{created}}
		notify := &actionNotifierStub{}
		store := NewRoomsStore(client, notify)

		room, err := store.Create(context.Background(), api.RoomPayload{RoomNumber: created.RoomNumber})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if room.ID != created.ID {
			t.Fatalf("expected created room %d, got %d", created.ID, room.ID)
		}
		if len(notify.begun) != 1 || len(notify.succeeded) != 1 {
			t.Fatalf("expected one begin and one success indicator, got %d/%d", len(notify.begun), len(notify.succeeded))
		}
		if notify.begun[0].actionID != notify.succeeded[0].actionID {
			t.Fatal("expected the success indicator to share the begin indicator's id")
		}
	})

	t.Run("still refetches after a rejected mutation", func(t *testing.T) {
		t.Parallel()

		client := &roomsClientStub{deleteErr: &api.Error{
			Op: "rooms.delete", Kind: api.KindServer, Status: 409, Message: "Өрөө идэвхтэй захиалгатай байна.",
		}}
		notify := &actionNotifierStub{}
		store := NewRoomsStore(client, notify)

		if err := store.Delete(context.Background(), 3); err == nil {
			t.Fatal("expected an error")
		}
		if client.listCalls != 1 {
			t.Fatalf("expected a resynchronizing refetch, got %d listings", client.listCalls)
		}
		if len(notify.failed) != 1 || notify.failed[0].message != "Өрөө идэвхтэй захиалгатай байна." {
			t.Fatalf("expected the server message on the failure indicator, got %v", notify.failed)
		}
	})
}
