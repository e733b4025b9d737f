package api

import (
	"context"
	"fmt"
	"net/http"
)

// MyNotifications fetches the current user's notifications together with the
// server reported unseen count.
func (c *Client) MyNotifications(ctx context.Context) (NotificationFeed, error) {
	var resp envelope[[]Notification]
	err := c.do(ctx, "MyNotifications", http.MethodGet, "/notifications", nil, nil, &resp,
		"Мэдэгдлүүдийг татаж чадсангүй.")
	if err != nil {
		return NotificationFeed{}, err
	}
	return NotificationFeed{Items: resp.Data, UnseenCount: resp.UnseenCount}, nil
}

// MarkAllNotificationsSeen flips every unseen notification to seen.
func (c *Client) MarkAllNotificationsSeen(ctx context.Context) error {
	return c.do(ctx, "MarkAllNotificationsSeen", http.MethodPatch, "/notifications/mark-all-as-seen", nil, nil, nil,
		"Мэдэгдлийн төлөвийг шинэчилж чадсангүй.")
}

// MarkNotificationSeen flips a single notification to seen and returns the
// updated record.
func (c *Client) MarkNotificationSeen(ctx context.Context, id int) (Notification, error) {
	var resp envelope[Notification]
	err := c.do(ctx, "MarkNotificationSeen", http.MethodPut, fmt.Sprintf("/notifications/%d/seen", id), nil, nil, &resp,
		"Мэдэгдлийн төлөвийг шинэчилж чадсангүй.")
	if err != nil {
		return Notification{}, err
	}
	return resp.Data, nil
}
