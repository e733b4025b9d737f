package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) Token(context.Context) string { return string(s) }

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, staticToken(token), 5*time.Second)
}

func TestClientRequestShape(t *testing.T) {
	t.Parallel()

	t.Run("attaches the bearer token and a request id", func(t *testing.T) {
		t.Parallel()

		var got *http.Request
		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			got = r.Clone(context.Background())
			w.Write([]byte(`{"data":{"id":1,"username":"bataa","role":"CUSTOMER"}}`))
		})

		if _, err := client.Me(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if auth := got.Header.Get("Authorization"); auth != "Bearer valid-token" {
			t.Fatalf("unexpected authorization header: %q", auth)
		}
		if got.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected a request id header")
		}
		if accept := got.Header.Get("Accept"); accept != "application/json" {
			t.Fatalf("unexpected accept header: %q", accept)
		}
	})

	t.Run("sends anonymous requests without an authorization header", func(t *testing.T) {
		t.Parallel()

		var auth string
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Write([]byte(`{"token":"issued"}`))
		})

		token, err := client.Login(context.Background(), LoginPayload{Email: "a@b.mn", Password: "secret"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "issued" {
			t.Fatalf("expected the issued token, got %q", token)
		}
		if auth != "" {
			t.Fatalf("expected no authorization header, got %q", auth)
		}
	})

	t.Run("forwards listing filters as query parameters", func(t *testing.T) {
		t.Parallel()

		var query string
		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			w.Write([]byte(`{"success":true,"count":0,"data":[]}`))
		})

		if _, err := client.ListRooms(context.Background(), RoomQuery{Keyword: "seminar", Capacity: 20}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if query != "capacity=20&keyword=seminar" {
			t.Fatalf("unexpected query string: %q", query)
		}
	})
}

func TestClientEnvelopeVariants(t *testing.T) {
	t.Parallel()

	t.Run("decodes the bare data wrapper of the personal listing", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders/my" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"data":[{"id":1,"status":"pending"},{"id":2,"status":"approved"}]}`))
		})

		orders, err := client.MyOrders(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 2 || orders[0].ID != 1 || orders[1].Status != OrderApproved {
			t.Fatalf("unexpected orders: %+v", orders)
		}
	})

	t.Run("decodes the counted wrapper of the full queue listing", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"count":1,"data":[{"id":3,"status":"rejected"}]}`))
		})

		orders, err := client.AllOrders(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(orders) != 1 || orders[0].Status != OrderRejected {
			t.Fatalf("unexpected orders: %+v", orders)
		}
	})

	t.Run("decodes the enveloped reservation returned by create", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":42,"status":"pending","room_id":7}}`))
		})

		order, err := client.CreateOrder(context.Background(), CreateOrderPayload{RoomID: 7})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != 42 || order.Status != OrderPending {
			t.Fatalf("unexpected order: %+v", order)
		}
	})

	t.Run("decodes the bare order returned by the status transition", func(t *testing.T) {
		t.Parallel()

		var body []byte
		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"id":9,"status":"completed"}`))
		})

		order, err := client.UpdateOrderStatus(context.Background(), 9, OrderCompleted)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != OrderCompleted {
			t.Fatalf("unexpected order: %+v", order)
		}

		var sent map[string]string
		if err := json.Unmarshal(body, &sent); err != nil {
			t.Fatalf("failed to decode the request body: %v", err)
		}
		if sent["status"] != "completed" {
			t.Fatalf("unexpected transition payload: %v", sent)
		}
	})

	t.Run("extracts the unseen count alongside the notification listing", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"unseenCount":2,"data":[{"id":1,"status":"unseen"},{"id":2,"status":"unseen"},{"id":3,"status":"seen"}]}`))
		})

		feed, err := client.MyNotifications(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if feed.UnseenCount != 2 || len(feed.Items) != 3 {
			t.Fatalf("unexpected feed: %+v", feed)
		}
	})

	t.Run("accepts the empty delete response", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/rooms/7" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		})

		if err := client.DeleteRoom(context.Background(), 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestClientFailureNormalization(t *testing.T) {
	t.Parallel()

	t.Run("prefers the structured server message", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Өрөө олдсонгүй."}}`))
		})

		_, err := client.GetRoom(context.Background(), 99)
		if err == nil {
			t.Fatal("expected an error")
		}
		if got := Message(err); got != "Өрөө олдсонгүй." {
			t.Fatalf("expected the server message, got %q", got)
		}
	})

	t.Run("falls back to the flat message field", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"Давхцсан захиалга байна."}`))
		})

		_, err := client.CreateOrder(context.Background(), CreateOrderPayload{RoomID: 1})
		if got := Message(err); got != "Давхцсан захиалга байна." {
			t.Fatalf("expected the flat message, got %q", got)
		}
	})

	t.Run("uses the operation fallback when the body is not decodable", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`<html>oops</html>`))
		})

		_, err := client.MyOrders(context.Background())
		if got := Message(err); got != "Захиалгын жагсаалтыг татахад алдаа гарлаа." {
			t.Fatalf("expected the fallback message, got %q", got)
		}
	})

	t.Run("maps auth rejections onto the unauthorized sentinel", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
			client := newTestClient(t, "expired-token", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"error":{"message":"Нэвтрэх эрх дууссан."}}`))
			})

			_, err := client.Me(context.Background())
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("status %d: expected unauthorized sentinel, got %v", status, err)
			}
		}
	})

	t.Run("maps missing resources onto the not found sentinel", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Өрөө олдсонгүй."}`))
		})

		_, err := client.GetRoom(context.Background(), 404)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found sentinel, got %v", err)
		}
	})

	t.Run("normalizes transport failures with the generic message", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, staticToken(""), time.Second)

		_, err := client.ListRooms(context.Background(), RoomQuery{})
		if !errors.Is(err, ErrUnreachable) {
			t.Fatalf("expected unreachable sentinel, got %v", err)
		}
		if got := Message(err); got != msgUnreachable {
			t.Fatalf("expected the generic transport message, got %q", got)
		}
	})

	t.Run("flags undecodable success bodies", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "valid-token", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json at all`))
		})

		_, err := client.Me(context.Background())
		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindDecode {
			t.Fatalf("expected a decode error, got %v", err)
		}
	})
}
