package logger

import (
	"bytes"
	"context"
	"testing"

	kit "addrcheck/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"  nonsense ", zerolog.InfoLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestInit_ChildLoggersCarryFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "debug",
		Format:       "json",
		Service:      "addrcheck-test",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})

	Named("supervisor").Info().Msg("named-msg")

	ctx := WithCheck(WithRequest(context.Background(), "req-1"), "abc123")
	C(ctx).Info().Msg("ctx-msg")

	// empty ids leave ctx untouched
	if WithRequest(context.Background(), "") != context.Background() {
		t.Fatal("WithRequest with empty id should return ctx unchanged")
	}

	out := buf.String()
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, `"component":"supervisor"`)
	kit.MustContain(t, out, `"request_id":"req-1"`)
	kit.MustContain(t, out, `"check_id":"abc123"`)
	kit.MustContain(t, out, `"build":"test"`)
}
