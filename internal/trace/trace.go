// Package trace reads, writes, generates and replays operation traces for
// the table.
//
// A trace is plain text with one operation per line:
//
//	PUT <key> <value>
//	GET <key> <expected>
//	DEL <key> <expected>
//
// An expected value of -1 means that the key should be absent. Blank lines
// and lines starting with '#' are ignored.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind uint8

const (
	Put Kind = iota + 1
	Get
	Del
)

func (k Kind) String() string {
	switch k {
	case Put:
		return "PUT"
	case Get:
		return "GET"
	case Del:
		return "DEL"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func parseKind(s string) (Kind, bool) {
	switch s {
	case "PUT":
		return Put, true
	case "GET":
		return Get, true
	case "DEL":
		return Del, true
	}
	return 0, false
}

// Op is a single line of a trace.
type Op struct {
	Kind Kind
	Key  uint32
	// For PUT the value to store. For GET and DEL the value the table is
	// expected to return, if Present.
	Value   uint32
	Present bool
}

func (op Op) String() string {
	if op.Kind != Put && !op.Present {
		return fmt.Sprintf("%v %d -1", op.Kind, op.Key)
	}
	return fmt.Sprintf("%v %d %d", op.Kind, op.Key, op.Value)
}

// Parse reads a whole trace.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		op, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "trace line %d", lineno)
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading trace")
	}
	return ops, nil
}

func parseLine(line string) (Op, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Op{}, errors.Errorf("want 3 fields, got %d in %q", len(fields), line)
	}

	kind, ok := parseKind(fields[0])
	if !ok {
		return Op{}, errors.Errorf("unknown operation %q", fields[0])
	}

	key, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Op{}, errors.Wrapf(err, "bad key %q", fields[1])
	}

	op := Op{Kind: kind, Key: uint32(key), Present: true}
	if kind != Put && fields[2] == "-1" {
		op.Present = false
		return op, nil
	}

	value, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return Op{}, errors.Wrapf(err, "bad value %q", fields[2])
	}
	op.Value = uint32(value)
	return op, nil
}

// Write writes the trace out in the format that Parse reads.
func Write(w io.Writer, ops []Op) error {
	bw := bufio.NewWriter(w)
	for _, op := range ops {
		if _, err := fmt.Fprintln(bw, op); err != nil {
			return errors.Wrap(err, "writing trace")
		}
	}
	return errors.Wrap(bw.Flush(), "writing trace")
}
