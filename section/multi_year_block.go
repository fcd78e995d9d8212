package section

import (
	"fmt"
	"math"
	"time"

	"github.com/weftlib/weft/endian"
	"github.com/weftlib/weft/errs"
)

// MultiYearBlock covers [StartYear-01-01T00:00:00Z, (StartYear+DurationYears)-01-01T00:00:00Z),
// marker 0x00 03 (§3.2).
type MultiYearBlock struct {
	StartYear     int16
	DurationYears uint16
	Coefficients  []float32
}

var _ Block = MultiYearBlock{}

func (b MultiYearBlock) Kind() BlockKind { return KindMultiYear }
func (b MultiYearBlock) Marker() uint16  { return MarkerMultiYear }

func (b MultiYearBlock) Coverage() (start, end time.Time) {
	start = time.Date(int(b.StartYear), time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(int(b.StartYear)+int(b.DurationYears), time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Serialize appends the block to buf (big-endian) and returns the
// extended slice.
func (b MultiYearBlock) Serialize(buf []byte) []byte {
	engine := endian.GetBigEndianEngine()
	buf = engine.AppendUint16(buf, MarkerMultiYear)
	buf = engine.AppendUint16(buf, uint16(b.StartYear))
	buf = engine.AppendUint16(buf, b.DurationYears)
	buf = engine.AppendUint32(buf, uint32(len(b.Coefficients)))
	for _, c := range b.Coefficients {
		buf = engine.AppendUint32(buf, math.Float32bits(c))
	}

	return buf
}

// SerializedLen returns the exact byte length Serialize will produce.
func (b MultiYearBlock) SerializedLen() int {
	return MultiYearFixedLen + len(b.Coefficients)*Float32Size
}

// ParseMultiYearBlock parses a multi-year block body (the marker must
// already have been consumed by the caller). Returns the block and the
// number of bytes consumed from data (not including the marker).
func ParseMultiYearBlock(data []byte) (MultiYearBlock, int, error) {
	const fixed = MultiYearFixedLen - MarkerSize
	if len(data) < fixed {
		return MultiYearBlock{}, 0, fmt.Errorf("%w: multi-year block header", errs.ErrTruncatedBlock)
	}

	engine := endian.GetBigEndianEngine()
	startYear := int16(engine.Uint16(data[0:2]))
	duration := engine.Uint16(data[2:4])
	coefCount := engine.Uint32(data[4:8])

	need := fixed + int(coefCount)*Float32Size
	if len(data) < need {
		return MultiYearBlock{}, 0, fmt.Errorf("%w: multi-year coefficients: need %d bytes, have %d", errs.ErrTruncatedBlock, need, len(data))
	}

	coeffs := make([]float32, coefCount)
	off := fixed
	for i := range coeffs {
		coeffs[i] = math.Float32frombits(engine.Uint32(data[off : off+4]))
		off += 4
	}

	return MultiYearBlock{StartYear: startYear, DurationYears: duration, Coefficients: coeffs}, need, nil
}
