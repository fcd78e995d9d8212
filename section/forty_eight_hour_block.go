package section

import (
	"fmt"
	"math"
	"time"

	"github.com/weftlib/weft/endian"
	"github.com/weftlib/weft/errs"
)

// FortyEightHourBlock (marker 0x00 01) covers [Center-24h, Center+24h)
// where Center = Year-Month-DayT00:00:00Z (§3.2). Its total serialized
// length is fixed by the active SectionHeader's BlockSize, including
// any trailing zero padding needed to reach that size.
type FortyEightHourBlock struct {
	Year         int16
	Month        uint8
	Day          uint8
	Coefficients []float32
}

var _ Block = FortyEightHourBlock{}

func (b FortyEightHourBlock) Kind() BlockKind { return KindFortyEightHour }
func (b FortyEightHourBlock) Marker() uint16  { return MarkerFortyEightHour }

// Center returns the UTC midnight this block is centered on.
func (b FortyEightHourBlock) Center() time.Time {
	return time.Date(int(b.Year), time.Month(b.Month), int(b.Day), 0, 0, 0, 0, time.UTC)
}

func (b FortyEightHourBlock) Coverage() (start, end time.Time) {
	center := b.Center()
	return center.Add(-24 * time.Hour), center.Add(24 * time.Hour)
}

// Serialize writes the block padded to exactly blockSize bytes. blockSize
// must be at least the fixed header plus the coefficient payload.
func (b FortyEightHourBlock) Serialize(buf []byte, blockSize uint16) ([]byte, error) {
	payload := FortyEightHourMin + len(b.Coefficients)*Float32Size
	if payload > int(blockSize) {
		return nil, fmt.Errorf("%w: 48h block payload %d exceeds block_size %d", errs.ErrSizeMismatch, payload, blockSize)
	}

	engine := endian.GetBigEndianEngine()
	buf = engine.AppendUint16(buf, MarkerFortyEightHour)
	buf = engine.AppendUint16(buf, uint16(b.Year))
	buf = append(buf, b.Month, b.Day)
	for _, c := range b.Coefficients {
		buf = engine.AppendUint32(buf, math.Float32bits(c))
	}
	pad := int(blockSize) - payload
	for i := 0; i < pad; i++ {
		buf = append(buf, 0)
	}

	return buf, nil
}

// MinLen returns the payload length (header + coefficients, before
// padding) this block would need at minimum.
func (b FortyEightHourBlock) MinLen() int {
	return FortyEightHourMin + len(b.Coefficients)*Float32Size
}

// ParseFortyEightHourBlock parses a 48h block body (marker already
// consumed) given the active section header's BlockSize, which fixes the
// exact number of bytes this record occupies including zero padding.
//
// Unlike the monthly and multi-year blocks, this format carries no
// explicit coefficient count: every 4-byte word after the fixed y/m/d
// header is decoded as a coefficient, including any trailing
// zero-padding word. This is safe because a zero-valued Chebyshev
// coefficient never changes the evaluated sum (0·T_n(x) = 0); the
// padding is self-masking rather than needing to be stripped.
func ParseFortyEightHourBlock(data []byte, blockSize uint16) (FortyEightHourBlock, int, error) {
	total := int(blockSize) - MarkerSize
	if len(data) < total {
		return FortyEightHourBlock{}, 0, fmt.Errorf("%w: 48h block: need %d bytes, have %d", errs.ErrTruncatedBlock, total, len(data))
	}
	if total < FortyEightHourMin-MarkerSize {
		return FortyEightHourBlock{}, 0, fmt.Errorf("%w: 48h block_size %d too small for fixed header", errs.ErrSizeMismatch, blockSize)
	}

	engine := endian.GetBigEndianEngine()
	year := int16(engine.Uint16(data[0:2]))
	month := data[2]
	day := data[3]

	payloadLen := total - (FortyEightHourMin - MarkerSize)
	coefCount := payloadLen / Float32Size

	coeffs := make([]float32, coefCount)
	off := FortyEightHourMin - MarkerSize
	for i := range coeffs {
		coeffs[i] = math.Float32frombits(engine.Uint32(data[off : off+4]))
		off += 4
	}

	return FortyEightHourBlock{Year: year, Month: month, Day: day, Coefficients: coeffs}, total, nil
}
