package schedule

import "fmt"

// Status is the outcome of evaluating a block list against "now".
// StatusLine/NextLine are the human-facing rendering; the dispatcher only
// consumes HasNext, NextChangeMinute and NextChangeType.
type Status struct {
	StatusLine       string
	NextLine         string
	HasNext          bool
	NextChangeMinute int
	NextChangeType   State
}

// ComputeStatus finds the current block (first block whose interval holds
// nowMinute wins) and the next state transition. Blocks are taken in
// source order and never re-sorted: the source is assumed chronological,
// and when it is not, first match wins.
func ComputeStatus(blocks []Block, nowMinute int) Status {
	for _, b := range blocks {
		if nowMinute >= b.StartMinute && nowMinute < b.EndMinute {
			st := Status{
				StatusLine:       "Currently " + b.State.String(),
				HasNext:          true,
				NextChangeMinute: b.EndMinute,
				NextChangeType:   b.State.Opposite(),
			}
			st.NextLine = fmt.Sprintf("Changes to %s at %s (in %s)",
				st.NextChangeType.String(), b.End, FormatDelta(b.EndMinute-nowMinute))
			return st
		}
	}

	// not inside any block: the next transition is entering the first
	// block that starts after now
	for _, b := range blocks {
		if b.StartMinute > nowMinute {
			st := Status{
				StatusLine:       "Currently " + b.State.Opposite().String(),
				HasNext:          true,
				NextChangeMinute: b.StartMinute,
				NextChangeType:   b.State,
			}
			st.NextLine = fmt.Sprintf("Changes to %s at %s (in %s)",
				b.State.String(), b.Start, FormatDelta(b.StartMinute-nowMinute))
			return st
		}
	}

	return Status{StatusLine: "No schedule data", NextLine: ""}
}

// FormatDelta renders a minute count as "H h M m".
func FormatDelta(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d h %d m", minutes/60, minutes%60)
}

