package capture

import "fmt"

// StreamEndPolicy decides what happens to a source's history when its
// stream ends.
type StreamEndPolicy string

const (
	// ClearOnSilence drops the history and removes the source.
	ClearOnSilence StreamEndPolicy = "clear-on-silence"
	// RetainUntilEviction keeps the history read-only until it ages out.
	RetainUntilEviction StreamEndPolicy = "retain-until-eviction"
)

// ParseStreamEndPolicy validates s.
func ParseStreamEndPolicy(s string) (StreamEndPolicy, error) {
	switch p := StreamEndPolicy(s); p {
	case ClearOnSilence, RetainUntilEviction:
		return p, nil
	case "":
		return RetainUntilEviction, nil
	default:
		return "", fmt.Errorf("unknown stream end policy %q", s)
	}
}
