package api

import (
	"context"
	"fmt"
	"net/http"
)

// MyOrders fetches the reservations belonging to the current user.
func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var resp envelope[[]Order]
	err := c.do(ctx, "MyOrders", http.MethodGet, "/orders/my", nil, nil, &resp,
		"Захиалгын жагсаалтыг татахад алдаа гарлаа.")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AllOrders fetches every reservation. Requires an administrator or manager
// token; the server enforces the privilege.
func (c *Client) AllOrders(ctx context.Context) ([]Order, error) {
	var resp envelope[[]Order]
	err := c.do(ctx, "AllOrders", http.MethodGet, "/orders", nil, nil, &resp,
		"Захиалгуудыг татаж чадсангүй.")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateOrder places a reservation against a room.
func (c *Client) CreateOrder(ctx context.Context, payload CreateOrderPayload) (Order, error) {
	var resp envelope[Order]
	err := c.do(ctx, "CreateOrder", http.MethodPost, "/orders", nil, payload, &resp,
		"Захиалга үүсгэх үед алдаа гарлаа.")
	if err != nil {
		return Order{}, err
	}
	return resp.Data, nil
}

// CancelOrder requests cancellation of a reservation. The API decides whether
// the current status permits it.
func (c *Client) CancelOrder(ctx context.Context, id int) error {
	return c.do(ctx, "CancelOrder", http.MethodPatch, fmt.Sprintf("/orders/%d/cancel", id), nil, nil, nil,
		"Захиалгыг цуцлахад алдаа гарлаа.")
}

// ApproveOrder requests approval of a pending reservation.
func (c *Client) ApproveOrder(ctx context.Context, id int) error {
	return c.do(ctx, "ApproveOrder", http.MethodPatch, fmt.Sprintf("/orders/%d/approve", id), nil, nil, nil,
		"Захиалгыг баталгаажуулахад алдаа гарлаа.")
}

// updateStatusPayload wraps the requested status for the admin transition call.
type updateStatusPayload struct {
	Status OrderStatus `json:"status"`
}

// UpdateOrderStatus moves a reservation to the given status and returns the
// updated order. The response body is the bare order, not an envelope.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (Order, error) {
	var order Order
	err := c.do(ctx, "UpdateOrderStatus", http.MethodPut, fmt.Sprintf("/orders/%d/status", id), nil,
		updateStatusPayload{Status: status}, &order,
		"Төлөвийг шинэчилж чадсангүй.")
	if err != nil {
		return Order{}, err
	}
	return order, nil
}
