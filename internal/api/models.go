package api

// Role identifies the permission tier assigned to an account by the booking API.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
)

// User represents the authenticated account returned by /users/me.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Role        Role   `json:"role"`
	CompanyName string `json:"companyName,omitempty"`
	RegDate     string `json:"regDate"`
}

// RegisterPayload captures the fields submitted when creating an account.
type RegisterPayload struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName,omitempty"`
}

// LoginPayload captures the credentials submitted on sign-in.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePasswordPayload captures a password change request. The API issues a
// fresh bearer token on success.
type UpdatePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// RoomStatus marks whether a room is open for booking.
type RoomStatus string

const (
	RoomActive   RoomStatus = "ACTIVE"
	RoomInactive RoomStatus = "INACTIVE"
)

// RoomImage is a child record of a room, added and removed independently.
type RoomImage struct {
	ID       int    `json:"id"`
	RoomID   int    `json:"room_id"`
	ImageURL string `json:"image_url"`
}

// Room represents a bookable room in the catalog.
type Room struct {
	ID          int         `json:"id"`
	RoomNumber  int         `json:"room_number"`
	Location    string      `json:"location"`
	Capacity    int         `json:"capacity"`
	Description string      `json:"description"`
	Status      RoomStatus  `json:"status"`
	Category    string      `json:"category"`
	Images      []RoomImage `json:"images"`
}

// RoomPayload captures the fields submitted when creating or updating a room.
type RoomPayload struct {
	RoomNumber  int        `json:"room_number"`
	Location    string     `json:"location"`
	Capacity    int        `json:"capacity"`
	Description string     `json:"description"`
	Status      RoomStatus `json:"status"`
	Category    string     `json:"category"`
}

// AddImagePayload captures the fields submitted when attaching an image to a room.
type AddImagePayload struct {
	RoomID   int    `json:"room_id"`
	ImageURL string `json:"image_url"`
}

// RoomQuery holds the optional filters forwarded on room listings.
type RoomQuery struct {
	Keyword  string
	Capacity int
}

// OrderStatus tracks a reservation through its lifecycle. Transitions are
// requested by this client but decided by the API.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderRejected  OrderStatus = "rejected"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderRoom is the room snapshot embedded in an order response.
type OrderRoom struct {
	RoomNumber int         `json:"room_number"`
	Location   string      `json:"location"`
	Capacity   int         `json:"capacity"`
	Images     []RoomImage `json:"images"`
}

// Order represents a reservation placed against a room.
type Order struct {
	ID        int         `json:"id"`
	Status    OrderStatus `json:"status"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	OrderDate string      `json:"orderDate"`
	Purpose   string      `json:"purpose"`
	RoomID    int         `json:"room_id"`
	UserID    int         `json:"user_id"`
	Room      OrderRoom   `json:"room"`
}

// CreateOrderPayload captures the fields submitted when reserving a room.
type CreateOrderPayload struct {
	RoomID    int    `json:"room_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Purpose   string `json:"purpose"`
}

// NotificationType labels the event that produced a notification.
type NotificationType string

const (
	NotificationReservation  NotificationType = "reservation"
	NotificationApproval     NotificationType = "approval"
	NotificationRejection    NotificationType = "rejection"
	NotificationCancellation NotificationType = "cancellation"
	NotificationGlobal       NotificationType = "global_announcement"
)

// NotificationStatus tracks the read state of a notification. The only legal
// transition is unseen to seen.
type NotificationStatus string

const (
	NotificationSeen   NotificationStatus = "seen"
	NotificationUnseen NotificationStatus = "unseen"
)

// Notification represents a message addressed to the current user or broadcast
// globally.
type Notification struct {
	ID        int                `json:"id"`
	Type      NotificationType   `json:"type"`
	Message   string             `json:"message"`
	Status    NotificationStatus `json:"status"`
	IsGlobal  bool               `json:"is_global"`
	UserID    *int               `json:"user_id"`
	CreatedAt string             `json:"created_at"`
}

// NotificationFeed bundles the notification listing with the server reported
// unseen count.
type NotificationFeed struct {
	Items       []Notification
	UnseenCount int
}

// envelope is the response wrapper used by the booking API. The list
// endpoints disagree on which fields they populate (orders/my returns bare
// {data}, orders returns {success,count,data}), so a single permissive
// shape decodes every variant and callers take only the fields they need.
type envelope[T any] struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Count       int    `json:"count"`
	UnseenCount int    `json:"unseenCount"`
	Token       string `json:"token"`
	Data        T      `json:"data"`
}
