package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Level: "debug", NoColor: true, Out: &buf}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	l := Get()
	l.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("output %q does not contain the message", buf.String())
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("global level = %s", zerolog.GlobalLevel())
	}
}

func TestInit_BadLevel(t *testing.T) {
	var buf bytes.Buffer
	err := Init(Options{Level: "loud", NoColor: true, Out: &buf})
	if err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", zerolog.GlobalLevel())
	}
}

func TestForBatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{NoColor: true, Out: &buf}); err != nil {
		t.Fatal(err)
	}

	id := NewBatchID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewBatchID() = %q: %v", id, err)
	}

	ctx := WithBatchID(context.Background(), id)
	if got := BatchIDFromContext(ctx); got != id {
		t.Errorf("BatchIDFromContext = %q, want %q", got, id)
	}
	if got := BatchIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context gave %q", got)
	}

	l := ForBatch(ctx)
	l.Info().Msg("judging")
	if !strings.Contains(buf.String(), id) {
		t.Errorf("output %q does not carry the batch id", buf.String())
	}
}

func TestLogOrders_Truncates(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	LogOrders(l, "orders", strings.Repeat("A vie H ; ", 200))
	if !strings.Contains(buf.String(), `"truncated":true`) {
		t.Errorf("long listing was not truncated: %s", buf.String())
	}

	buf.Reset()
	LogOrders(l, "orders", "")
	if buf.Len() != 0 {
		t.Errorf("empty listing logged %q", buf.String())
	}
}
