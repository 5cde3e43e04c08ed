package trace

import "math/rand"

// GenConfig controls Generate.
type GenConfig struct {
	Seed int64
	// Keys are drawn from [0, MaxUnique).
	MaxUnique uint32
	Length    int
	// Fraction of the operations that are deletes. The rest is split evenly
	// between puts and gets.
	DeleteRatio float64
}

// Generate makes a random trace. Every put stores a value that was never
// stored before, so a stale read can't accidentally look right. Expected
// results come from a built-in map that follows along.
//
// The same config always generates the same trace.
func Generate(cfg GenConfig) []Op {
	if cfg.MaxUnique == 0 || cfg.Length <= 0 {
		return nil
	}

	prng := rand.New(rand.NewSource(cfg.Seed))
	oracle := make(map[uint32]uint32)
	ops := make([]Op, 0, cfg.Length)
	var unique uint32

	for i := 0; i < cfg.Length; i++ {
		key := uint32(prng.Int63n(int64(cfg.MaxUnique)))

		kind := Get
		if cfg.DeleteRatio > 0 && prng.Float64() < cfg.DeleteRatio {
			kind = Del
		} else if prng.Intn(2) == 1 {
			kind = Put
		}

		op := Op{Kind: kind, Key: key}
		switch kind {
		case Put:
			op.Value = unique
			op.Present = true
			oracle[key] = unique
			unique++
		case Get:
			op.Value, op.Present = oracle[key]
		case Del:
			op.Value, op.Present = oracle[key]
			delete(oracle, key)
		}
		ops = append(ops, op)
	}
	return ops
}
