package schedule

import "time"

// LocalClock projects a real UTC instant into a fixed-offset local
// timeline. The evaluator only knows minutes since local midnight; the
// dispatcher needs absolute deadlines. LocalDayOriginMillis is the start
// of the local day on the shifted timeline, so any minute-of-day can be
// mapped back to a UTC instant.
type LocalClock struct {
	NowUTCMillis         int64
	OffsetMinutes        int
	LocalMinuteOfDay     int
	LocalDayOriginMillis int64
}

const (
	millisPerMinute = int64(60_000)
	millisPerDay    = int64(minutesPerDay) * millisPerMinute
)

// NewLocalClock builds a LocalClock for the given UTC offset at instant
// now. The day origin is the shifted instant floored to a whole-day
// boundary; flooring (not truncation) keeps it correct for instants and
// offsets that land before the epoch.
func NewLocalClock(offsetMinutes int, now time.Time) LocalClock {
	nowMs := now.UnixMilli()
	localMs := nowMs + int64(offsetMinutes)*millisPerMinute
	origin := floorDiv(localMs, millisPerDay) * millisPerDay
	return LocalClock{
		NowUTCMillis:         nowMs,
		OffsetMinutes:        offsetMinutes,
		LocalMinuteOfDay:     int((localMs - origin) / millisPerMinute),
		LocalDayOriginMillis: origin,
	}
}

// AbsoluteUTCMillis converts a local minute-of-day back into a UTC
// instant on the clock's local day. Minutes past 1440 (a block end that
// crossed midnight) land on the next day, as they should.
func (c LocalClock) AbsoluteUTCMillis(minuteOfDay int) int64 {
	return c.LocalDayOriginMillis + int64(minuteOfDay)*millisPerMinute - int64(c.OffsetMinutes)*millisPerMinute
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
