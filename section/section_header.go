package section

import (
	"fmt"
	"time"

	"github.com/weftlib/weft/endian"
	"github.com/weftlib/weft/errs"
)

// SectionHeader (marker 0x00 02) defines the fixed byte size and
// expected count of the immediately following run of 48h blocks. It
// carries no polynomial data of its own (§3.2).
type SectionHeader struct {
	StartYear  int16
	StartMonth uint8
	StartDay   uint8
	EndYear    int16
	EndMonth   uint8
	EndDay     uint8
	BlockSize  uint16
	BlockCount uint32
}

var _ Block = SectionHeader{}

func (h SectionHeader) Kind() BlockKind { return KindSectionHeaderRecord }
func (h SectionHeader) Marker() uint16  { return MarkerSectionHeader }

// Coverage returns the section's nominal [start_date, end_date] day
// range. It is inclusive on both ends per §4.4.a ("the section header
// whose [start_date, end_date] contains date(t)"); callers doing
// half-open-interval logic elsewhere should treat EndDate as the last
// covered calendar day, not an exclusive bound.
func (h SectionHeader) Coverage() (start, end time.Time) {
	start = time.Date(int(h.StartYear), time.Month(h.StartMonth), int(h.StartDay), 0, 0, 0, 0, time.UTC)
	end = time.Date(int(h.EndYear), time.Month(h.EndMonth), int(h.EndDay), 0, 0, 0, 0, time.UTC)
	return start, end
}

// ContainsDate reports whether the UTC calendar day of t falls within
// [StartDate, EndDate] inclusive.
func (h SectionHeader) ContainsDate(t time.Time) bool {
	start, end := h.Coverage()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

func (h SectionHeader) Serialize(buf []byte) []byte {
	engine := endian.GetBigEndianEngine()
	buf = engine.AppendUint16(buf, MarkerSectionHeader)
	buf = engine.AppendUint16(buf, uint16(h.StartYear))
	buf = append(buf, h.StartMonth, h.StartDay)
	buf = engine.AppendUint16(buf, uint16(h.EndYear))
	buf = append(buf, h.EndMonth, h.EndDay)
	buf = engine.AppendUint16(buf, h.BlockSize)
	buf = engine.AppendUint32(buf, h.BlockCount)

	return buf
}

func (h SectionHeader) SerializedLen() int { return SectionHeaderLen }

// ParseSectionHeader parses a section header body (marker already
// consumed).
func ParseSectionHeader(data []byte) (SectionHeader, int, error) {
	const fixed = SectionHeaderLen - MarkerSize
	if len(data) < fixed {
		return SectionHeader{}, 0, fmt.Errorf("%w: section header", errs.ErrTruncatedBlock)
	}

	engine := endian.GetBigEndianEngine()
	h := SectionHeader{
		StartYear:  int16(engine.Uint16(data[0:2])),
		StartMonth: data[2],
		StartDay:   data[3],
		EndYear:    int16(engine.Uint16(data[4:6])),
		EndMonth:   data[6],
		EndDay:     data[7],
		BlockSize:  engine.Uint16(data[8:10]),
		BlockCount: engine.Uint32(data[10:14]),
	}

	start, end := h.Coverage()
	if end.Before(start) {
		return SectionHeader{}, 0, fmt.Errorf("%w: section header end_date before start_date", errs.ErrInvalidSectionHeader)
	}

	return h, fixed, nil
}
