package section

import (
	"fmt"
	"math"
	"time"

	"github.com/weftlib/weft/endian"
	"github.com/weftlib/weft/errs"
)

// MonthlyBlock covers [Year-Month-01T00:00Z, Year-Month-01T00:00Z + DayCount·86400s),
// marker 0x00 00 (§3.2). DayCount is normally 28-31 but may be outside
// that range for partial-month blocks at the boundary of a data
// source's range; readers accept any positive value.
type MonthlyBlock struct {
	Year         int16
	Month        uint8 // 1-12
	DayCount     uint8
	Coefficients []float32
}

var _ Block = MonthlyBlock{}

func (b MonthlyBlock) Kind() BlockKind { return KindMonthly }
func (b MonthlyBlock) Marker() uint16  { return MarkerMonthly }

func (b MonthlyBlock) Coverage() (start, end time.Time) {
	start = time.Date(int(b.Year), time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC)
	end = start.Add(time.Duration(b.DayCount) * 24 * time.Hour)
	return start, end
}

func (b MonthlyBlock) Serialize(buf []byte) []byte {
	engine := endian.GetBigEndianEngine()
	buf = engine.AppendUint16(buf, MarkerMonthly)
	buf = engine.AppendUint16(buf, uint16(b.Year))
	buf = append(buf, b.Month, b.DayCount)
	buf = engine.AppendUint32(buf, uint32(len(b.Coefficients)))
	for _, c := range b.Coefficients {
		buf = engine.AppendUint32(buf, math.Float32bits(c))
	}

	return buf
}

func (b MonthlyBlock) SerializedLen() int {
	return MonthlyFixedLen + len(b.Coefficients)*Float32Size
}

// ParseMonthlyBlock parses a monthly block body (marker already
// consumed). day_count must be > 0; values outside 28-31 are accepted
// and no warning is emitted for them.
func ParseMonthlyBlock(data []byte) (MonthlyBlock, int, error) {
	const fixed = MonthlyFixedLen - MarkerSize
	if len(data) < fixed {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly block header", errs.ErrTruncatedBlock)
	}

	engine := endian.GetBigEndianEngine()
	year := int16(engine.Uint16(data[0:2]))
	month := data[2]
	dayCount := data[3]
	coefCount := engine.Uint32(data[4:8])

	if dayCount == 0 {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly block day_count must be > 0", errs.ErrSizeMismatch)
	}
	if month < 1 || month > 12 {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly block month %d out of range", errs.ErrSizeMismatch, month)
	}

	need := fixed + int(coefCount)*Float32Size
	if len(data) < need {
		return MonthlyBlock{}, 0, fmt.Errorf("%w: monthly coefficients: need %d bytes, have %d", errs.ErrTruncatedBlock, need, len(data))
	}

	coeffs := make([]float32, coefCount)
	off := fixed
	for i := range coeffs {
		coeffs[i] = math.Float32frombits(engine.Uint32(data[off : off+4]))
		off += 4
	}

	return MonthlyBlock{Year: year, Month: month, DayCount: dayCount, Coefficients: coeffs}, need, nil
}
