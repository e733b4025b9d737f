package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/example/roombook/internal/api"
	"github.com/example/roombook/internal/guard"
	"github.com/example/roombook/internal/session"
	"github.com/example/roombook/internal/state"
)

const usage = `roombook - university room booking client

  login <email> <password> [redirect]
  register <username> <email> <password> <phone> [company]
  logout
  me
  password <current> <new>

  rooms list [keyword]
  rooms get <id>
  rooms create <number> <location> <capacity> <category> <status> <description>
  rooms update <id> <number> <location> <capacity> <category> <status> <description>
  rooms delete <id>
  images add <room_id> <image_url>
  images delete <image_id>

  orders my
  orders all
  orders create <room_id> <start_time> <end_time> <purpose>
  orders cancel <id>
  orders approve <id>
  orders status <id> <pending|approved|rejected|completed|cancelled>

  notifications list
  notifications seen <id>
  notifications seen-all
`

type app struct {
	client        *api.Client
	sessions      *session.Store
	rooms         *state.RoomsStore
	myOrders      *state.OrdersStore
	allOrders     *state.OrdersStore
	notifications *state.NotificationsStore
	terminal      *terminal
	stdin         io.Reader
}

// run resolves the session, applies the authorization gate for the requested
// surface, and dispatches the command. The gate order mirrors the layout
// shell: bootstrap first, auth-entry surfaces unconditionally, public pages
// next, and everything else behind authentication.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.terminal.out, usage)
		return 2
	}

	route := routeFor(args)

	if err := a.sessions.Bootstrap(ctx); err != nil {
		a.terminal.Error("Профайлын санг уншиж чадсангүй.")
		return 1
	}

	gate := guard.State{
		IsLoading:       a.sessions.IsLoading(),
		IsAuthenticated: a.sessions.IsAuthenticated(),
	}
	switch guard.Evaluate(gate, route) {
	case guard.ShowLoading:
		// Bootstrap always resolves before the gate runs; reaching this arm
		// would mean the session store broke its own contract.
		a.terminal.Error("Ачаалж дуусаагүй байна.")
		return 1
	case guard.RedirectToLogin:
		a.terminal.NavigateTo(guard.RouteLogin)
		a.terminal.Error("Эхлээд нэвтэрнэ үү.")
		return 1
	}

	switch args[0] {
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "register":
		return a.cmdRegister(ctx, args[1:])
	case "logout":
		a.sessions.Logout(ctx)
		return 0
	case "me":
		return a.cmdMe()
	case "password":
		return a.cmdPassword(ctx, args[1:])
	case "rooms":
		return a.cmdRooms(ctx, args[1:])
	case "images":
		return a.cmdImages(ctx, args[1:])
	case "orders":
		return a.cmdOrders(ctx, args[1:])
	case "notifications":
		return a.cmdNotifications(ctx, args[1:])
	}

	fmt.Fprint(a.terminal.out, usage)
	return 2
}

// routeFor maps a command to the surface whose page class gates it.
func routeFor(args []string) string {
	switch args[0] {
	case "login":
		return guard.RouteLogin
	case "register":
		return guard.RouteRegister
	case "me", "password":
		return guard.RouteSettings
	case "rooms", "images":
		return guard.RouteRooms
	case "orders":
		if len(args) > 1 && args[1] == "my" {
			return guard.RouteMyOrders
		}
		return guard.RouteOrders
	case "notifications":
		return guard.RouteNotifications
	}
	return guard.RouteDashboard
}

func (a *app) cmdLogin(ctx context.Context, args []string) int {
	if len(args) < 2 {
		a.terminal.Error("Имэйл болон нууц үгээ оруулна уу.")
		return 2
	}
	params := session.LoginParams{
		Payload: api.LoginPayload{Email: args[0], Password: args[1]},
	}
	if len(args) > 2 {
		params.Redirect = args[2]
	}
	if err := a.sessions.Login(ctx, params); err != nil {
		return 1
	}
	return 0
}

func (a *app) cmdRegister(ctx context.Context, args []string) int {
	if len(args) < 4 {
		a.terminal.Error("Бүртгэлийн мэдээлэл дутуу байна.")
		return 2
	}
	payload := api.RegisterPayload{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
		Phone:    args[3],
	}
	if len(args) > 4 {
		payload.CompanyName = args[4]
	}
	if err := a.sessions.Register(ctx, session.RegisterParams{Payload: payload}); err != nil {
		return 1
	}
	return 0
}

func (a *app) cmdMe() int {
	user, ok := a.sessions.User()
	if !ok {
		a.terminal.Error("Нэвтрээгүй байна.")
		return 1
	}
	w := tabwriter.NewWriter(a.terminal.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%d\n", user.ID)
	fmt.Fprintf(w, "Нэр\t%s\n", user.Username)
	fmt.Fprintf(w, "Имэйл\t%s\n", user.Email)
	fmt.Fprintf(w, "Утас\t%s\n", user.Phone)
	fmt.Fprintf(w, "Эрх\t%s\n", user.Role)
	if user.CompanyName != "" {
		fmt.Fprintf(w, "Байгууллага\t%s\n", user.CompanyName)
	}
	fmt.Fprintf(w, "Бүртгүүлсэн\t%s\n", user.RegDate)
	w.Flush()
	return 0
}

func (a *app) cmdPassword(ctx context.Context, args []string) int {
	if len(args) < 2 {
		a.terminal.Error("Одоогийн болон шинэ нууц үгээ оруулна уу.")
		return 2
	}
	token, err := a.client.UpdatePassword(ctx, api.UpdatePasswordPayload{
		CurrentPassword: args[0],
		NewPassword:     args[1],
	})
	if err != nil {
		a.terminal.Error(api.Message(err))
		return 1
	}
	// The password change invalidated the old token; adopt the fresh one
	// without a logout/login cycle. SetNewToken discards it silently on
	// failure, so surfacing the error is this caller's job.
	if err := a.sessions.SetNewToken(ctx, token); err != nil {
		a.terminal.Error(api.Message(err))
		return 1
	}
	a.terminal.Success("Нууц үг амжилттай солигдлоо.")
	return 0
}

func (a *app) cmdRooms(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.terminal.out, usage)
		return 2
	}
	switch args[0] {
	case "list":
		query := api.RoomQuery{}
		if len(args) > 1 {
			query.Keyword = args[1]
		}
		if err := a.rooms.Fetch(ctx, query); err != nil {
			a.terminal.Error(a.rooms.Err())
			return 1
		}
		a.renderRooms(a.rooms.Rooms())
		return 0
	case "get":
		id, ok := a.parseID(args[1:])
		if !ok {
			return 2
		}
		room, err := a.client.GetRoom(ctx, id)
		if err != nil {
			a.terminal.Error(api.Message(err))
			return 1
		}
		a.renderRooms([]api.Room{room})
		for _, image := range room.Images {
			fmt.Fprintf(a.terminal.out, "  зураг %d: %s\n", image.ID, image.ImageURL)
		}
		return 0
	case "create", "update":
		if !a.requireRole(guard.CanManageRooms) {
			return 1
		}
		rest := args[1:]
		var id int
		if args[0] == "update" {
			var ok bool
			id, ok = a.parseID(rest)
			if !ok {
				return 2
			}
			rest = rest[1:]
		}
		payload, ok := a.parseRoomPayload(rest)
		if !ok {
			return 2
		}
		var err error
		if args[0] == "create" {
			_, err = a.rooms.Create(ctx, payload)
		} else {
			_, err = a.rooms.Update(ctx, id, payload)
		}
		if err != nil {
			return 1
		}
		return 0
	case "delete":
		if !a.requireRole(guard.CanManageRooms) {
			return 1
		}
		id, ok := a.parseID(args[1:])
		if !ok {
			return 2
		}
		if !a.confirm(fmt.Sprintf("Өрөө №%d-г устгах уу?", id)) {
			return 0
		}
		if err := a.rooms.Delete(ctx, id); err != nil {
			return 1
		}
		return 0
	}
	fmt.Fprint(a.terminal.out, usage)
	return 2
}

func (a *app) cmdImages(ctx context.Context, args []string) int {
	if !a.requireRole(guard.CanManageRooms) {
		return 1
	}
	if len(args) == 0 {
		fmt.Fprint(a.terminal.out, usage)
		return 2
	}
	switch args[0] {
	case "add":
		if len(args) < 3 {
			a.terminal.Error("Өрөөний дугаар болон зургийн хаягийг оруулна уу.")
			return 2
		}
		roomID, err := strconv.Atoi(args[1])
		if err != nil {
			a.terminal.Error("Өрөөний ID буруу байна.")
			return 2
		}
		if err := a.rooms.AddImage(ctx, api.AddImagePayload{RoomID: roomID, ImageURL: args[2]}); err != nil {
			return 1
		}
		return 0
	case "delete":
		id, ok := a.parseID(args[1:])
		if !ok {
			return 2
		}
		if !a.confirm(fmt.Sprintf("Зураг №%d-г устгах уу?", id)) {
			return 0
		}
		if err := a.rooms.DeleteImage(ctx, id); err != nil {
			return 1
		}
		return 0
	}
	fmt.Fprint(a.terminal.out, usage)
	return 2
}

func (a *app) cmdOrders(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.terminal.out, usage)
		return 2
	}
	switch args[0] {
	case "my":
		if err := a.myOrders.Fetch(ctx); err != nil {
			a.terminal.Error(a.myOrders.Err())
			return 1
		}
		a.renderOrders(a.myOrders.Categorized())
		return 0
	case "all":
		if !a.requireRole(guard.CanReviewOrders) {
			return 1
		}
		if err := a.allOrders.Fetch(ctx); err != nil {
			a.terminal.Error(a.allOrders.Err())
			return 1
		}
		a.renderOrders(a.allOrders.Categorized())
		return 0
	case "create":
		if len(args) < 5 {
			a.terminal.Error("Захиалгын мэдээлэл дутуу байна.")
			return 2
		}
		roomID, err := strconv.Atoi(args[1])
		if err != nil {
			a.terminal.Error("Өрөөний ID буруу байна.")
			return 2
		}
		order, err := a.myOrders.Create(ctx, api.CreateOrderPayload{
			RoomID:    roomID,
			StartTime: args[2],
			EndTime:   args[3],
			Purpose:   strings.Join(args[4:], " "),
		})
		if err != nil {
			return 1
		}
		fmt.Fprintf(a.terminal.out, "Захиалга №%d бүртгэгдлээ.\n", order.ID)
		a.terminal.NavigateTo(guard.RouteMyOrders)
		return 0
	case "cancel":
		id, ok := a.parseID(args[1:])
		if !ok {
			return 2
		}
		if !a.confirm(fmt.Sprintf("Захиалга №%d-г цуцлах уу?", id)) {
			return 0
		}
		if err := a.myOrders.Cancel(ctx, id); err != nil {
			return 1
		}
		return 0
	case "approve":
		if !a.requireRole(guard.CanReviewOrders) {
			return 1
		}
		id, ok := a.parseID(args[1:])
		if !ok {
			return 2
		}
		if err := a.allOrders.Approve(ctx, id); err != nil {
			return 1
		}
		return 0
	case "status":
		if !a.requireRole(guard.CanReviewOrders) {
			return 1
		}
		if len(args) < 3 {
			a.terminal.Error("Захиалгын ID болон шинэ төлөвийг оруулна уу.")
			return 2
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			a.terminal.Error("Захиалгын ID буруу байна.")
			return 2
		}
		status, ok := parseOrderStatus(args[2])
		if !ok {
			a.terminal.Error("Төлөв буруу байна.")
			return 2
		}
		if _, err := a.allOrders.UpdateStatus(ctx, id, status); err != nil {
			return 1
		}
		return 0
	}
	fmt.Fprint(a.terminal.out, usage)
	return 2
}

func (a *app) cmdNotifications(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.terminal.out, usage)
		return 2
	}
	if err := a.notifications.Fetch(ctx); err != nil {
		a.terminal.Error(a.notifications.Err())
		return 1
	}
	switch args[0] {
	case "list":
		a.renderNotifications()
		return 0
	case "seen":
		id, ok := a.parseID(args[1:])
		if !ok {
			return 2
		}
		if err := a.notifications.MarkSeen(ctx, id); err != nil {
			return 1
		}
		a.renderNotifications()
		return 0
	case "seen-all":
		if err := a.notifications.MarkAllSeen(ctx); err != nil {
			return 1
		}
		a.renderNotifications()
		return 0
	}
	fmt.Fprint(a.terminal.out, usage)
	return 2
}

// requireRole checks one capability against the authenticated user. The
// server enforces the matrix authoritatively; this check only spares the user
// a guaranteed rejection.
func (a *app) requireRole(allowed func(api.Role) bool) bool {
	user, ok := a.sessions.User()
	if !ok || !allowed(user.Role) {
		a.terminal.Error("Энэ үйлдлийг хийх эрх байхгүй байна.")
		return false
	}
	return true
}

// confirm asks before a destructive action is sent. Anything except y/yes is
// a refusal.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.terminal.out, "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(a.stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func (a *app) parseID(args []string) (int, bool) {
	if len(args) == 0 {
		a.terminal.Error("ID оруулна уу.")
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		a.terminal.Error("ID буруу байна.")
		return 0, false
	}
	return id, true
}

func (a *app) parseRoomPayload(args []string) (api.RoomPayload, bool) {
	if len(args) < 6 {
		a.terminal.Error("Өрөөний мэдээлэл дутуу байна.")
		return api.RoomPayload{}, false
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		a.terminal.Error("Өрөөний дугаар буруу байна.")
		return api.RoomPayload{}, false
	}
	capacity, err := strconv.Atoi(args[2])
	if err != nil {
		a.terminal.Error("Багтаамж буруу байна.")
		return api.RoomPayload{}, false
	}
	status := api.RoomStatus(strings.ToUpper(args[4]))
	if status != api.RoomActive && status != api.RoomInactive {
		a.terminal.Error("Төлөв ACTIVE эсвэл INACTIVE байх ёстой.")
		return api.RoomPayload{}, false
	}
	return api.RoomPayload{
		RoomNumber:  number,
		Location:    args[1],
		Capacity:    capacity,
		Category:    args[3],
		Status:      status,
		Description: strings.Join(args[5:], " "),
	}, true
}

func parseOrderStatus(raw string) (api.OrderStatus, bool) {
	status := api.OrderStatus(strings.ToLower(raw))
	switch status {
	case api.OrderPending, api.OrderApproved, api.OrderRejected, api.OrderCompleted, api.OrderCancelled:
		return status, true
	}
	return "", false
}

func (a *app) renderRooms(rooms []api.Room) {
	w := tabwriter.NewWriter(a.terminal.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tДугаар\tБайршил\tБагтаамж\tАнгилал\tТөлөв")
	for _, room := range rooms {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%s\n",
			room.ID, room.RoomNumber, room.Location, room.Capacity, room.Category, room.Status)
	}
	w.Flush()
}

func (a *app) renderOrders(p state.Partition) {
	w := tabwriter.NewWriter(a.terminal.out, 0, 4, 2, ' ', 0)
	sections := []struct {
		title  string
		orders []api.Order
	}{
		{"Хүлээгдэж буй", p.Pending},
		{"Баталгаажсан", p.Approved},
		{"Дууссан", p.Final},
	}
	for _, section := range sections {
		if len(section.orders) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", section.title)
		for _, order := range section.orders {
			fmt.Fprintf(w, "  №%d\t%s\t%s – %s\tөрөө %d\t%s\n",
				order.ID, order.Status, order.StartTime, order.EndTime, order.RoomID, order.Purpose)
		}
	}
	w.Flush()
}

func (a *app) renderNotifications() {
	items := a.notifications.Notifications()
	w := tabwriter.NewWriter(a.terminal.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Уншаагүй: %d\n", a.notifications.UnseenCount())
	for _, item := range items {
		marker := " "
		if item.Status == api.NotificationUnseen {
			marker = "●"
		}
		fmt.Fprintf(w, "%s №%d\t%s\t%s\t%s\n", marker, item.ID, item.Type, item.CreatedAt, item.Message)
	}
	w.Flush()
}
