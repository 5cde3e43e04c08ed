package trace

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rip-create-your-account/robintable"
)

// ErrMismatch is returned by Replay when the table disagrees with the trace.
var ErrMismatch = errors.New("trace: table disagrees with the trace")

// Result counts what Replay did.
type Result struct {
	Ops        int
	Puts       int
	Gets       int
	Dels       int
	Mismatches int
}

// Replay applies the trace to the table and checks every GET and DEL
// against the expected result. It keeps going after a mismatch so that the
// result counts all of them, the returned error describes the first one.
//
// Insert failures and context cancellation stop the replay right away.
func Replay(ctx context.Context, t *robintable.Table, ops []Op, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var res Result
	var firstErr error
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "replay stopped at op %d", i)
		}
		res.Ops++

		var got uint32
		var ok bool
		switch op.Kind {
		case Put:
			res.Puts++
			if _, err := t.Insert(op.Key, op.Value); err != nil {
				return res, errors.Wrapf(err, "op %d: %v", i, op)
			}
			continue
		case Get:
			res.Gets++
			got, ok = t.Lookup(op.Key)
		case Del:
			res.Dels++
			got, ok = t.Delete(op.Key)
		default:
			return res, errors.Errorf("op %d: unknown kind %v", i, op.Kind)
		}

		if ok == op.Present && (!ok || got == op.Value) {
			continue
		}

		res.Mismatches++
		gotOp := Op{Kind: op.Kind, Key: op.Key, Value: got, Present: ok}
		log.Debug("mismatch",
			zap.Int("op", i),
			zap.Stringer("want", op),
			zap.Stringer("got", gotOp))
		if firstErr == nil {
			firstErr = errors.Wrapf(ErrMismatch, "op %d: want %q, got %q", i, op.String(), gotOp.String())
		}
	}

	st := t.Stats()
	log.Info("replay done",
		zap.Int("ops", res.Ops),
		zap.Int("puts", res.Puts),
		zap.Int("gets", res.Gets),
		zap.Int("dels", res.Dels),
		zap.Int("mismatches", res.Mismatches),
		zap.Int("len", st.Len),
		zap.Int("capacity", st.Cap),
		zap.Float64("load_factor", st.LoadFactor),
		zap.Int("max_probe", st.MaxProbeDistance),
		zap.Float64("mean_probe", st.MeanProbeDistance),
		zap.Int("grows", st.Grows))
	return res, firstErr
}
