// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/snaplog/internal/table"
)

// ErrMissingKeyColumn is returned when a snapshot lacks one of the key
// columns.
var ErrMissingKeyColumn = errors.New("missing key column")

// DefaultSentinel replaces null key components.
const DefaultSentinel = "unknown"

// keySep joins key components into a map key. It cannot appear in text read
// from a workbook cell.
const keySep = "\x1f"

// Key is a composite key, one component per key column in configured order.
type Key []string

// String renders the key for humans.
func (k Key) String() string {
	return "(" + strings.Join(k, ", ") + ")"
}

func (k Key) id() string {
	return strings.Join(k, keySep)
}

// Ambiguity records a key carried by more than one row. Rows are positions
// in the snapshot.
type Ambiguity struct {
	Key  Key
	Rows []int
}

// KeyIndex maps keys to row positions of one snapshot.
type KeyIndex struct {
	Snapshot   *table.Snapshot
	KeyColumns []string

	order []Key
	rows  map[string][]int
}

type options struct {
	sentinel string
}

// Option configures Build.
type Option func(*options)

// WithSentinel sets the value substituted for null key components.
func WithSentinel(s string) Option {
	return func(o *options) {
		if s != "" {
			o.sentinel = s
		}
	}
}

// Build indexes snap by keyCols.
func Build(snap *table.Snapshot, keyCols []string, opts ...Option) (*KeyIndex, error) {
	o := options{sentinel: DefaultSentinel}
	for _, opt := range opts {
		opt(&o)
	}

	if len(keyCols) == 0 {
		return nil, fmt.Errorf("%w: no key columns given for %s", ErrMissingKeyColumn, snap.Name)
	}
	for _, col := range keyCols {
		if !snap.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q not in %s", ErrMissingKeyColumn, col, snap.Name)
		}
	}

	idx := &KeyIndex{
		Snapshot:   snap,
		KeyColumns: append([]string(nil), keyCols...),
		rows:       make(map[string][]int, len(snap.Rows)),
	}

	for i, row := range snap.Rows {
		key := make(Key, len(keyCols))
		for j, col := range keyCols {
			v := row[col]
			if table.IsNull(v) {
				key[j] = o.sentinel
				continue
			}
			key[j] = table.String(v)
		}

		id := key.id()
		if _, ok := idx.rows[id]; !ok {
			idx.order = append(idx.order, key)
		}
		idx.rows[id] = append(idx.rows[id], i)
	}

	if amb := idx.Ambiguous(); len(amb) > 0 {
		log.Debugf("%s: %d keys map to more than one row", snap.Name, len(amb))
	}

	return idx, nil
}

// Keys returns every distinct key in first-appearance order.
func (idx *KeyIndex) Keys() []Key {
	return idx.order
}

// Len returns the number of distinct keys.
func (idx *KeyIndex) Len() int {
	return len(idx.order)
}

// Has reports whether k is present.
func (idx *KeyIndex) Has(k Key) bool {
	_, ok := idx.rows[k.id()]
	return ok
}

// Positions returns the snapshot row positions carrying k.
func (idx *KeyIndex) Positions(k Key) []int {
	return idx.rows[k.id()]
}

// Rows returns the rows carrying k, in snapshot order.
func (idx *KeyIndex) Rows(k Key) []table.Row {
	pos := idx.rows[k.id()]
	out := make([]table.Row, 0, len(pos))
	for _, p := range pos {
		out = append(out, idx.Snapshot.Rows[p])
	}
	return out
}

// IsKeyColumn reports whether col is one of the index's key columns.
func (idx *KeyIndex) IsKeyColumn(col string) bool {
	for _, k := range idx.KeyColumns {
		if k == col {
			return true
		}
	}
	return false
}

// Ambiguous returns the keys carried by more than one row, in first-appearance
// order.
func (idx *KeyIndex) Ambiguous() []Ambiguity {
	var out []Ambiguity
	for _, k := range idx.order {
		if pos := idx.rows[k.id()]; len(pos) > 1 {
			out = append(out, Ambiguity{Key: k, Rows: pos})
		}
	}
	return out
}
