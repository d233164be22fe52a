package dbc

import (
	"errors"
	"io"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/header"
	"github.com/brightwood/dbcdata/pkg/record"
	"github.com/brightwood/dbcdata/pkg/region"
	"github.com/brightwood/dbcdata/pkg/segment"
	"github.com/brightwood/dbcdata/pkg/stream"
)

// wiredRegions holds every region handler Open constructed for one
// file, plus the tables the record iterator needs beyond what
// record.Deps carries (index table for per-row keys, copy table for
// the trailing synthetic rows, offset map for row byte addressing).
type wiredRegions struct {
	deps       record.Deps
	offsetMap  *region.OffsetMap
	indexTable *region.IndexTable
	copyTable  *region.CopyTable
}

// absOrigin returns the absolute byte offset, within src, of the
// segment at slot: the header window's own absolute origin plus the
// chain-relative start offset the segment layer memoizes. Region
// constructors take an absolute origin into the shared source, not an
// origin relative to any window.
func absOrigin(headerWindow *stream.Window, chain *segment.Chain, slot int) int64 {
	return headerWindow.Origin() + chain.StartOffset(slot)
}

// wireRegions constructs every region handler this file's chain
// carries and the caller's load mask permits. A tag the chain never
// appended for this signature (segment.Chain.Find returning -1) is
// simply skipped: that segment does not exist for this version.
func wireRegions(src stream.Source, headerWindow *stream.Window, chain *segment.Chain, hdr header.Header, mask LoadMask) (wiredRegions, error) {
	var out wiredRegions

	if slot := chain.Find(segment.StringBlock); slot != -1 {
		pool, err := region.NewStringPool(src, absOrigin(headerWindow, chain, slot), chain.Length(slot))
		if err != nil {
			return out, err
		}
		out.deps.StringPool = pool
	}

	if slot := chain.Find(segment.FieldInfo); slot != -1 {
		fi, err := region.NewFieldInfo(src, absOrigin(headerWindow, chain, slot), chain.Length(slot), hdr.FieldCount())
		if err != nil {
			return out, err
		}
		out.deps.FieldInfo = fi
	}

	if slot := chain.Find(segment.ExtendedFieldInfo); slot != -1 && chain.Present(slot) {
		ext, err := region.NewExtendedFieldInfo(src, absOrigin(headerWindow, chain, slot), chain.Length(slot), hdr.FieldCount())
		if err != nil {
			return out, err
		}
		out.deps.Extended = ext
	}

	if mask.Has(OptOffsetMap) && hdr.HasOffsetMap() {
		if slot := chain.Find(segment.OffsetMap); slot != -1 {
			om, err := region.NewOffsetMap(src, absOrigin(headerWindow, chain, slot), chain.Length(slot), hdr.MinIndex(), hdr.MaxIndex())
			if err != nil {
				return out, err
			}
			out.offsetMap = om
		}
	}

	if mask.Has(OptIndexTable) && hdr.HasIndexTable() {
		if slot := chain.Find(segment.IndexTable); slot != -1 {
			it, err := region.NewIndexTable(src, absOrigin(headerWindow, chain, slot), chain.Length(slot), hdr.RecordCount())
			if err != nil {
				return out, err
			}
			out.indexTable = it
		}
	}

	if mask.Has(OptCopyTable) {
		if slot := chain.Find(segment.CopyTable); slot != -1 {
			ct, err := region.NewCopyTable(src, absOrigin(headerWindow, chain, slot), chain.Length(slot))
			if err != nil {
				return out, err
			}
			out.copyTable = ct
		}
	}

	if mask.Has(OptPalette) {
		if slot := chain.Find(segment.PalletData); slot != -1 && chain.Present(slot) {
			pd, err := region.NewPalletData(src, absOrigin(headerWindow, chain, slot), chain.Length(slot))
			if err != nil {
				return out, err
			}
			out.deps.Palette = pd
		}
	}

	if mask.Has(OptCommonData) {
		if slot := chain.Find(segment.CommonData); slot != -1 && chain.Present(slot) {
			cd, err := region.NewCommonData(src, absOrigin(headerWindow, chain, slot), chain.Length(slot), out.deps.Extended)
			if err != nil {
				return out, err
			}
			out.deps.Common = cd
		}
	}

	if mask.Has(OptRelationship) {
		if slot := chain.Find(segment.RelationshipData); slot != -1 && chain.Present(slot) {
			rd, err := region.NewRelationshipData(src, absOrigin(headerWindow, chain, slot), chain.Length(slot))
			if err != nil {
				return out, err
			}
			out.deps.Relationship = rd
		}
	}

	return out, nil
}

// rowBytes returns the raw bytes of the row at position (0-based,
// declared order) among the file's primary rows. Without an offset
// map, rows are a fixed stride within the Records segment. With one,
// OffsetMapEntry.FileOffset addresses the row directly, as an absolute
// offset from the start of the underlying source — this family's wire
// convention places row data whose position can no longer be derived
// from a fixed stride anywhere the writer chose, not necessarily
// contiguous with the nominal (zero-length) Records segment.
func rowBytes(src stream.Source, headerWindow *stream.Window, chain *segment.Chain, offsetMap *region.OffsetMap, id uint32, position int, recordSize int) ([]byte, error) {
	if offsetMap != nil {
		entry, ok := offsetMap.Lookup(id)
		if !ok {
			return nil, nil
		}
		buf := make([]byte, entry.Size)
		read, err := src.ReadAt(buf, int64(entry.FileOffset))
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if read < len(buf) {
			return nil, dbcerr.NewError("Read", dbcerr.ErrTruncated).Build()
		}
		return buf, nil
	}

	slot := chain.Find(segment.Records)
	origin := absOrigin(headerWindow, chain, slot) + int64(position)*int64(recordSize)
	buf := make([]byte, recordSize)
	read, err := src.ReadAt(buf, origin)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if read < len(buf) {
		return nil, dbcerr.NewError("Read", dbcerr.ErrTruncated).Build()
	}
	return buf, nil
}
