package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rip-create-your-account/robintable"
)

func TestParse(t *testing.T) {
	in := `# a tiny trace
PUT 1 10
GET 1 10

GET 2 -1
  DEL 1 10
DEL 1 -1
`
	ops, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []Op{
		{Kind: Put, Key: 1, Value: 10, Present: true},
		{Kind: Get, Key: 1, Value: 10, Present: true},
		{Kind: Get, Key: 2, Present: false},
		{Kind: Del, Key: 1, Value: 10, Present: true},
		{Kind: Del, Key: 1, Present: false},
	}, ops)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fields", "PUT 1 10\nGET 1\n", "trace line 2"},
		{"kind", "PUT 1 10\n\nSET 1 2\n", "trace line 3: unknown operation \"SET\""},
		{"key", "GET -5 1\n", "bad key \"-5\""},
		{"key overflow", "GET 4294967296 1\n", "bad key"},
		{"put absent", "PUT 1 -1\n", "bad value \"-1\""},
		{"value", "DEL 1 x\n", "bad value \"x\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteParse(t *testing.T) {
	ops := Generate(GenConfig{Seed: 3, MaxUnique: 50, Length: 500, DeleteRatio: 0.2})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ops))
	assert.True(t, strings.HasPrefix(buf.String(), ops[0].String()+"\n"))

	got, err := Parse(&buf)
	require.NoError(t, err)
	require.Equal(t, ops, got)
}

func TestGenerate(t *testing.T) {
	cfg := GenConfig{Seed: 42, MaxUnique: 100, Length: 1000}
	ops := Generate(cfg)
	require.Len(t, ops, 1000)
	require.Equal(t, ops, Generate(cfg), "same seed, same trace")

	seen := make(map[uint32]bool)
	for _, op := range ops {
		require.Less(t, op.Key, uint32(100))
		require.NotEqual(t, Del, op.Kind, "no deletes without a delete ratio")
		if op.Kind == Put {
			require.False(t, seen[op.Value], "value %d stored twice", op.Value)
			seen[op.Value] = true
		}
	}

	cfg.DeleteRatio = 0.3
	dels := 0
	for _, op := range Generate(cfg) {
		if op.Kind == Del {
			dels++
		}
	}
	require.InDelta(t, 300, dels, 75)

	require.Empty(t, Generate(GenConfig{MaxUnique: 0, Length: 10}))
	require.Empty(t, Generate(GenConfig{MaxUnique: 10, Length: 0}))
}

func TestReplay(t *testing.T) {
	for _, ratio := range []float64{0, 0.1, 0.5} {
		ops := Generate(GenConfig{Seed: 7, MaxUnique: 300, Length: 20_000, DeleteRatio: ratio})
		table := robintable.MustNew(1, 0.75)

		core, logs := observer.New(zapcore.InfoLevel)
		res, err := Replay(context.Background(), table, ops, zap.New(core))
		require.NoError(t, err)
		require.Equal(t, len(ops), res.Ops)
		require.Equal(t, res.Ops, res.Puts+res.Gets+res.Dels)
		require.Zero(t, res.Mismatches)

		entries := logs.FilterMessage("replay done").All()
		require.Len(t, entries, 1)
		require.Equal(t, int64(table.Len()), entries[0].ContextMap()["len"])
	}
}

func TestReplayMismatch(t *testing.T) {
	ops, err := Parse(strings.NewReader(`PUT 1 10
GET 1 11
GET 2 5
DEL 1 10
GET 1 -1
`))
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	res, err := Replay(context.Background(), robintable.MustNew(4, 0.75), ops, zap.New(core))
	require.True(t, errors.Is(err, ErrMismatch), "%v", err)
	require.Contains(t, err.Error(), `op 1: want "GET 1 11", got "GET 1 10"`)
	require.Equal(t, 5, res.Ops)
	require.Equal(t, 2, res.Mismatches)
	require.Equal(t, 2, logs.FilterMessage("mismatch").Len())
}

func TestReplayStops(t *testing.T) {
	ops := Generate(GenConfig{Seed: 1, MaxUnique: 10, Length: 100})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Replay(ctx, robintable.MustNew(4, 0.75), ops, nil)
	require.True(t, errors.Is(err, context.Canceled), "%v", err)
	require.Zero(t, res.Ops)

	full := robintable.MustNew(2, 1, robintable.WithMaxCapacity(2))
	ops = []Op{
		{Kind: Put, Key: 1, Value: 1, Present: true},
		{Kind: Put, Key: 2, Value: 2, Present: true},
		{Kind: Put, Key: 3, Value: 3, Present: true},
		{Kind: Get, Key: 1, Value: 1, Present: true},
	}
	res, err = Replay(context.Background(), full, ops, nil)
	require.True(t, errors.Is(err, robintable.ErrCapacityExhausted), "%v", err)
	require.Equal(t, 3, res.Ops)
}
