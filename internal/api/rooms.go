package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListRooms fetches the room catalog. Query filters are optional and
// forwarded as-is; the server decides how to apply them.
func (c *Client) ListRooms(ctx context.Context, query RoomQuery) ([]Room, error) {
	values := url.Values{}
	if query.Keyword != "" {
		values.Set("keyword", query.Keyword)
	}
	if query.Capacity > 0 {
		values.Set("capacity", strconv.Itoa(query.Capacity))
	}

	var resp envelope[[]Room]
	err := c.do(ctx, "ListRooms", http.MethodGet, "/rooms", values, nil, &resp,
		"Өрөөний жагсаалтыг татахад алдаа гарлаа.")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetRoom fetches a single room by id.
func (c *Client) GetRoom(ctx context.Context, id int) (Room, error) {
	var resp envelope[Room]
	err := c.do(ctx, "GetRoom", http.MethodGet, fmt.Sprintf("/rooms/%d", id), nil, nil, &resp,
		"Өрөөний мэдээллийг татаж чадсангүй.")
	if err != nil {
		return Room{}, err
	}
	return resp.Data, nil
}

// CreateRoom adds a room to the catalog. The response body is the bare room,
// not an envelope.
func (c *Client) CreateRoom(ctx context.Context, payload RoomPayload) (Room, error) {
	var room Room
	err := c.do(ctx, "CreateRoom", http.MethodPost, "/rooms", nil, payload, &room,
		"Өрөө үүсгэх үед алдаа гарлаа.")
	if err != nil {
		return Room{}, err
	}
	return room, nil
}

// UpdateRoom replaces the mutable fields of an existing room.
func (c *Client) UpdateRoom(ctx context.Context, id int, payload RoomPayload) (Room, error) {
	var room Room
	err := c.do(ctx, "UpdateRoom", http.MethodPut, fmt.Sprintf("/rooms/%d", id), nil, payload, &room,
		"Өрөөний мэдээллийг шинэчлэхэд алдаа гарлаа.")
	if err != nil {
		return Room{}, err
	}
	return room, nil
}

// DeleteRoom removes a room. The success response carries no body.
func (c *Client) DeleteRoom(ctx context.Context, id int) error {
	return c.do(ctx, "DeleteRoom", http.MethodDelete, fmt.Sprintf("/rooms/%d", id), nil, nil, nil,
		"Өрөө устгах үед алдаа гарлаа.")
}

// AddRoomImage attaches an image to a room.
func (c *Client) AddRoomImage(ctx context.Context, payload AddImagePayload) (RoomImage, error) {
	var image RoomImage
	err := c.do(ctx, "AddRoomImage", http.MethodPost, "/roomImages", nil, payload, &image,
		"Зураг нэмэх үед алдаа гарлаа.")
	if err != nil {
		return RoomImage{}, err
	}
	return image, nil
}

// DeleteRoomImage removes a room image by its own id.
func (c *Client) DeleteRoomImage(ctx context.Context, id int) error {
	return c.do(ctx, "DeleteRoomImage", http.MethodDelete, fmt.Sprintf("/roomImages/%d", id), nil, nil, nil,
		"Зураг устгах үед алдаа гарлаа.")
}
