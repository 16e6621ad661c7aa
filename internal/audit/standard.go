package audit

import "strings"

// Standard identifies one of the regulatory frameworks the audit checks
// against. The set is closed: adding a standard means adding a constant here
// and a matching reviewer in internal/roles.
type Standard string

const (
	StandardIEC62304 Standard = "IEC 62304"
	StandardISO14971 Standard = "ISO 14971"
	StandardISO13485 Standard = "ISO 13485"
)

// standardMarkers maps each standard to the substring that identifies it in
// free text. The numeric designations are unambiguous across phrasings
// ("IEC 62304", "IEC-62304", "62304:2006").
var standardMarkers = []struct {
	standard Standard
	marker   string
}{
	{StandardIEC62304, "62304"},
	{StandardISO14971, "14971"},
	{StandardISO13485, "13485"},
}

// AllStandards returns the full supported set in canonical order. This is
// also the fail-open default when planning cannot determine a narrower
// scope.
func AllStandards() []Standard {
	return []Standard{StandardIEC62304, StandardISO14971, StandardISO13485}
}

// Valid reports whether s is a member of the closed enumeration.
func (s Standard) Valid() bool {
	switch s {
	case StandardIEC62304, StandardISO14971, StandardISO13485:
		return true
	}
	return false
}

// ParseStandards extracts the standards mentioned in free text, ordered by
// first occurrence and deduplicated. Text with no recognizable markers
// yields an empty slice; callers decide the fail-open policy.
func ParseStandards(text string) []Standard {
	type hit struct {
		standard Standard
		index    int
	}

	var hits []hit
	for _, m := range standardMarkers {
		if idx := strings.Index(text, m.marker); idx >= 0 {
			hits = append(hits, hit{standard: m.standard, index: idx})
		}
	}

	// Order by first mention so the planner's phrasing determines the
	// reviewer turn order.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].index < hits[j-1].index; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}

	standards := make([]Standard, len(hits))
	for i, h := range hits {
		standards[i] = h.standard
	}
	return standards
}
