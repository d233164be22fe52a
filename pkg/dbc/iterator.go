package dbc

import (
	"reflect"
	"time"

	"github.com/brightwood/dbcdata/pkg/logging"
	"github.com/brightwood/dbcdata/pkg/record"
)

// RecordIterator walks a File's decoded rows: every primary row in
// declared order, then (when CopyToList is set) every copy-table row in
// table order. Modeled on this module's other sequential iterators —
// Next advances, Record reads the current value, Err reports whatever
// stopped iteration early. A per-record I/O error halts the walk but
// leaves every row decoded up to that point valid.
type RecordIterator[T any] struct {
	rows []T
	pos  int
	err  error
}

func newRecordIterator[T any](f *File[T]) *RecordIterator[T] {
	it := &RecordIterator[T]{pos: -1}
	if f.strictDecoded {
		it.rows = f.strictRows
		return it
	}
	it.rows, it.err = decodeAll(f)
	return it
}

// Next advances to the next row and reports whether one was available.
func (it *RecordIterator[T]) Next() bool {
	if it.pos+1 >= len(it.rows) {
		return false
	}
	it.pos++
	return true
}

// Record returns the row at the current position. Calling it before a
// successful Next, or after Next returns false, yields the zero value.
func (it *RecordIterator[T]) Record() T {
	if it.pos < 0 || it.pos >= len(it.rows) {
		var zero T
		return zero
	}
	return it.rows[it.pos]
}

// Err returns the error that stopped iteration early, or nil if every
// row decoded cleanly (or the file carries no rows).
func (it *RecordIterator[T]) Err() error { return it.err }

// decodeAll decodes every primary row, then (if CopyToList) expands the
// copy table, stopping and returning the first error encountered while
// keeping every row decoded so far.
func decodeAll[T any](f *File[T]) ([]T, error) {
	var rows []T
	var zero T
	dstType := reflect.TypeOf(zero)
	byKey := make(map[uint32]T)

	var ids []uint32
	if f.regs.offsetMap != nil {
		ids = f.regs.offsetMap.PresentIDs()
	} else {
		ids = make([]uint32, f.RecordCount())
	}

	for position, id := range ids {
		rowStart := time.Now()
		if f.regs.offsetMap == nil && f.regs.indexTable != nil {
			if v, ok := f.regs.indexTable.IDAt(position); ok {
				id = v
			}
		}

		raw, err := rowBytes(f.src, f.window, f.chain, f.regs.offsetMap, id, position, int(f.hdr.RecordSize()))
		if err != nil {
			f.metrics.RecordTruncation("Records")
			return rows, err
		}
		if raw == nil {
			continue
		}

		rr := record.New(raw, f.regs.deps)
		dstVal := reflect.New(dstType).Elem()
		if err := f.plan.Exec(rr, uint32(position), id, dstVal); err != nil {
			return rows, err
		}

		rec := dstVal.Interface().(T)
		key := f.key.get(dstVal)
		byKey[key] = rec
		rows = append(rows, rec)
		f.metrics.RecordDecode(string(f.hdr.Signature()), time.Since(rowStart))
	}

	if f.opts.CopyToList && f.regs.copyTable != nil {
		for _, entry := range f.regs.copyTable.Entries() {
			src, ok := byKey[entry.SrcID]
			if !ok {
				f.logger.Warn("copy table references unknown source row",
					logging.RowID(entry.SrcID), logging.Any("dst", entry.DstID))
				continue
			}
			clone := f.Clone(src)
			f.SetKey(&clone, entry.DstID)
			rows = append(rows, clone)
		}
	}

	return rows, nil
}
