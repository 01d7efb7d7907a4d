package schedule

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// timePair matches "HH:MM-HH:MM" with an optional spaced hyphen, en dash
// or em dash between the two times.
var timePair = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-–—]\s*(\d{1,2}:\d{2})`)

// Classifier decides the power state of a block from the markup fragment
// surrounding its time pair. The upstream site is not ours, so the marker
// vocabulary is a strategy: swap it out when the layout changes.
type Classifier func(fragment string) State

// DefaultClassifier looks for the class/icon names the source site has
// used across its layout revisions.
func DefaultClassifier(fragment string) State {
	f := strings.ToLower(fragment)
	for _, m := range offMarkers {
		if strings.Contains(f, m) {
			return StateOff
		}
	}
	for _, m := range onMarkers {
		if strings.Contains(f, m) {
			return StateOn
		}
	}
	return StateUnknown
}

var (
	offMarkers = []string{"light_off", "light-off", "power-off", "icon-off", "vidkl", "outage-off", "red"}
	onMarkers  = []string{"light_on", "light-on", "power-on", "icon-on", "vkl", "outage-on", "green"}
)

// markerWindow is how far around a time pair the loose scan looks for a
// state marker in the raw markup. Newer layouts put the icon in a sibling
// node, outside the fragment that holds the times.
const markerWindow = 200

// dedupeDistance bounds how close (in raw characters) two identical loose
// matches must be to count as the same underlying node. Responsive layouts
// repeat the same visual element for each breakpoint.
const dedupeDistance = 400

// ParseBlocks extracts schedule blocks from raw HTML. It tries the
// structured list-item extraction first and falls back to a loose
// whole-document scan when that yields nothing usable.
func ParseBlocks(html string, classify Classifier) []Block {
	if classify == nil {
		classify = DefaultClassifier
	}
	if blocks := parseStructured(html, classify); len(blocks) > 0 {
		return blocks
	}
	return parseLoose(html)
}

// parseStructured walks list-item-like nodes and keeps the ones holding
// exactly one time pair. The state is classified from the node's own
// markup and, failing that, from a bounded window of raw markup around
// the pair's position in the document.
func parseStructured(html string, classify Classifier) []Block {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var blocks []Block
	searchFrom := 0
	doc.Find("li, tr, .schedule-item, .queue-item").Each(func(_ int, sel *goquery.Selection) {
		frag, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		pairs := timePair.FindAllStringSubmatch(frag, 2)
		if len(pairs) != 1 {
			return
		}
		at := -1
		if idx := strings.Index(html[searchFrom:], pairs[0][0]); idx >= 0 {
			at = searchFrom + idx
		}
		state := classify(frag)
		if state == StateUnknown && at >= 0 {
			// the marker may sit in surrounding markup, outside this node;
			// the backward window stops at the previous pair so one item's
			// marker cannot leak into the next
			lo := at - markerWindow
			if lo < searchFrom {
				lo = searchFrom
			}
			hi := at + markerWindow
			if hi > len(html) {
				hi = len(html)
			}
			state = classify(html[lo:hi])
		}
		if at >= 0 {
			searchFrom = at + len(pairs[0][0])
		}
		blocks = append(blocks, Block{Start: pairs[0][1], End: pairs[0][2], State: state})
	})
	return blocks
}

// parseLoose scans the whole document for time pairs in order. No state
// classification happens here; every block comes back unknown. Consecutive
// matches with an identical signature within dedupeDistance of each other
// collapse into one.
func parseLoose(html string) []Block {
	matches := timePair.FindAllStringSubmatchIndex(html, -1)
	var blocks []Block
	lastSig := ""
	lastAt := -dedupeDistance
	for _, m := range matches {
		start := html[m[2]:m[3]]
		end := html[m[4]:m[5]]
		sig := start + "|" + end
		if sig == lastSig && m[0]-lastAt <= dedupeDistance {
			lastAt = m[0]
			continue
		}
		blocks = append(blocks, Block{Start: start, End: end, State: StateUnknown})
		lastSig = sig
		lastAt = m[0]
	}
	return blocks
}
