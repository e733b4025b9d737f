// Package testfixtures provides deterministic domain records for tests.
// Counters make every generated record unique within a test binary run while
// option functions pin the fields a test actually cares about.
package testfixtures

import (
	"fmt"
	"sync/atomic"

	"github.com/example/roombook/internal/api"
)

var (
	userCounter         uint64
	roomCounter         uint64
	orderCounter        uint64
	notificationCounter uint64
)

// UserOption configures a generated user.
type UserOption func(*api.User)

// WithRole pins the user's role.
func WithRole(role api.Role) UserOption {
	return func(u *api.User) { u.Role = role }
}

// NewUser returns a deterministic customer account with optional overrides.
func NewUser(opts ...UserOption) api.User {
	idx := atomic.AddUint64(&userCounter, 1)
	user := api.User{
		ID:       int(idx),
		Username: fmt.Sprintf("user%03d", idx),
		Email:    fmt.Sprintf("user%03d@num.edu.mn", idx),
		Phone:    fmt.Sprintf("9900%04d", idx),
		Role:     api.RoleCustomer,
		RegDate:  "2024-01-02T15:04:05Z",
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// RoomOption configures a generated room.
type RoomOption func(*api.Room)

// WithRoomID pins the room's id.
func WithRoomID(id int) RoomOption {
	return func(r *api.Room) { r.ID = id }
}

// WithRoomStatus pins the room's status.
func WithRoomStatus(status api.RoomStatus) RoomOption {
	return func(r *api.Room) { r.Status = status }
}

// NewRoom returns a deterministic active room with optional overrides.
func NewRoom(opts ...RoomOption) api.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	room := api.Room{
		ID:          int(idx),
		RoomNumber:  int(100 + idx),
		Location:    fmt.Sprintf("Хичээлийн %d-р байр", idx%5+1),
		Capacity:    int(10 + idx),
		Description: "Сургалтын өрөө",
		Status:      api.RoomActive,
		Category:    "seminar",
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// OrderOption configures a generated order.
type OrderOption func(*api.Order)

// WithOrderID pins the order's id.
func WithOrderID(id int) OrderOption {
	return func(o *api.Order) { o.ID = id }
}

// WithOrderStatus pins the order's status.
func WithOrderStatus(status api.OrderStatus) OrderOption {
	return func(o *api.Order) { o.Status = status }
}

// NewOrder returns a deterministic pending order with optional overrides.
func NewOrder(opts ...OrderOption) api.Order {
	idx := atomic.AddUint64(&orderCounter, 1)
	order := api.Order{
		ID:        int(idx),
		Status:    api.OrderPending,
		StartTime: "2024-06-01T10:00:00Z",
		EndTime:   "2024-06-01T11:00:00Z",
		OrderDate: "2024-05-28T09:00:00Z",
		Purpose:   "Семинар",
		RoomID:    int(idx),
		UserID:    1,
	}
	for _, opt := range opts {
		opt(&order)
	}
	return order
}

// NotificationOption configures a generated notification.
type NotificationOption func(*api.Notification)

// WithNotificationID pins the notification's id.
func WithNotificationID(id int) NotificationOption {
	return func(n *api.Notification) { n.ID = id }
}

// Seen marks the notification as already read.
func Seen() NotificationOption {
	return func(n *api.Notification) { n.Status = api.NotificationSeen }
}

// NewNotification returns a deterministic unseen notification with optional
// overrides.
func NewNotification(opts ...NotificationOption) api.Notification {
	idx := atomic.AddUint64(&notificationCounter, 1)
	userID := 1
	notification := api.Notification{
		ID:        int(idx),
		Type:      api.NotificationReservation,
		Message:   fmt.Sprintf("Мэдэгдэл %d", idx),
		Status:    api.NotificationUnseen,
		IsGlobal:  false,
		UserID:    &userID,
		CreatedAt: "2024-06-01T08:00:00Z",
	}
	for _, opt := range opts {
		opt(&notification)
	}
	return notification
}
