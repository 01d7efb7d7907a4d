package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the power state carried by a schedule block.
type State int

const (
	StateUnknown State = iota
	StateOn
	StateOff
)

func (s State) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateOff:
		return "off"
	default:
		return "unknown"
	}
}

// Opposite returns the state a transition out of s leads to.
// Unknown stays unknown.
func (s State) Opposite() State {
	switch s {
	case StateOn:
		return StateOff
	case StateOff:
		return StateOn
	default:
		return StateUnknown
	}
}

// Block is one contiguous interval of a single power state.
// Start/End keep the source "HH:MM" labels; StartMinute/EndMinute are
// filled by Normalize and are the only fields comparisons may use.
type Block struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	State       State  `json:"state"`
}

// Normalize converts the textual times to minute-of-day integers.
// A block whose end reads earlier than its start crosses midnight and
// gets its end rolled forward by a full day, so EndMinute >= StartMinute
// always holds afterwards.
func Normalize(b Block) (Block, error) {
	start, err := toMinute(b.Start)
	if err != nil {
		return b, fmt.Errorf("start %q: %w", b.Start, err)
	}
	end, err := toMinute(b.End)
	if err != nil {
		return b, fmt.Errorf("end %q: %w", b.End, err)
	}
	if end < start {
		end += minutesPerDay
	}
	b.StartMinute = start
	b.EndMinute = end
	return b, nil
}

// NormalizeAll normalizes every block, dropping the ones whose time
// labels do not parse.
func NormalizeAll(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		nb, err := Normalize(b)
		if err != nil {
			continue
		}
		out = append(out, nb)
	}
	return out
}

const minutesPerDay = 24 * 60

func toMinute(hhmm string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0, fmt.Errorf("not a HH:MM value")
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("bad hour")
	}
	min, err := strconv.Atoi(m)
	if err != nil || min < 0 || min > 59 {
		return 0, fmt.Errorf("bad minute")
	}
	return hour*60 + min, nil
}
