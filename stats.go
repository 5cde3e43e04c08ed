package robintable

import (
	"fmt"
	"io"
)

// Stats is a snapshot of how the table is doing.
type Stats struct {
	Len        int
	Cap        int
	LoadFactor float64

	// Probe distances of the resident entries.
	MaxProbeDistance  int
	MeanProbeDistance float64

	// How many times the table has grown since it was made.
	Grows int
}

func (t *Table) Stats() Stats {
	st := Stats{
		Len:   t.len,
		Cap:   len(t.slots),
		Grows: t.grows,
	}
	st.LoadFactor = t.loadFactor()

	var total uint64
	for i := range t.slots {
		s := &t.slots[i]
		if !s.occupied {
			continue
		}
		total += uint64(s.dist)
		if int(s.dist) > st.MaxProbeDistance {
			st.MaxProbeDistance = int(s.dist)
		}
	}
	if t.len > 0 {
		st.MeanProbeDistance = float64(total) / float64(t.len)
	}
	return st
}

func (t *Table) loadFactor() float64 {
	return float64(t.len) / float64(len(t.slots))
}

// Dump writes out every slot of the table. Meant for staring at while
// debugging, the format may change whenever.
func (t *Table) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "len=%d cap=%d lf=%.3f/%.3f\n", t.len, len(t.slots), t.loadFactor(), t.maxLoadFactor); err != nil {
		return err
	}
	for i := range t.slots {
		s := &t.slots[i]
		var err error
		if s.occupied {
			_, err = fmt.Fprintf(w, "[%d] key=%d value=%d hash=%#x home=%d dist=%d\n", i, s.key, s.value, s.hash, s.hash%uint(len(t.slots)), s.dist)
		} else {
			_, err = fmt.Fprintf(w, "[%d] empty\n", i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
