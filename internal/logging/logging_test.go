package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("returns the attached logger", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := ContextWithLogger(context.Background(), logger)
		if got := FromContext(ctx); got != logger {
			t.Fatal("expected the attached logger back")
		}
	})

	t.Run("returns nil when nothing was attached", func(t *testing.T) {
		t.Parallel()

		if got := FromContext(context.Background()); got != nil {
			t.Fatal("expected nil for a bare context")
		}
	})
}

func TestScope(t *testing.T) {
	t.Parallel()

	t.Run("prefers the context logger over the component's own", func(t *testing.T) {
		t.Parallel()

		var fromContext, fromBase bytes.Buffer
		ctxLogger := slog.New(slog.NewTextHandler(&fromContext, nil))
		baseLogger := slog.New(slog.NewTextHandler(&fromBase, nil))

		ctx := ContextWithLogger(context.Background(), ctxLogger)
		Scope(ctx, baseLogger, "RoomsStore", "Fetch").Info("hello")

		if fromContext.Len() == 0 {
			t.Fatal("expected the context logger to receive the record")
		}
		if fromBase.Len() != 0 {
			t.Fatal("expected the base logger to stay silent")
		}
	})

	t.Run("labels records with component and operation", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&out, nil))

		Scope(context.Background(), logger, "SessionStore", "Login", "email", "a@b.mn").Info("hello")

		line := out.String()
		for _, want := range []string{"component=SessionStore", "operation=Login", "email=a@b.mn"} {
			if !strings.Contains(line, want) {
				t.Fatalf("expected %q in %q", want, line)
			}
		}
	})

	t.Run("never returns nil", func(t *testing.T) {
		t.Parallel()

		if got := Scope(context.Background(), nil, "RoomsStore", ""); got == nil {
			t.Fatal("expected a usable logger")
		}
	})
}
