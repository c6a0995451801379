package models

import (
	"fmt"
	"strings"
)

// Recommendation is the training go/no-go verdict. Higher values are more severe.
type Recommendation int

const (
	Go Recommendation = iota
	Conditional
	Cancel
)

// Recommendations lists every verdict from least to most severe
var Recommendations = []Recommendation{Go, Conditional, Cancel}

func (r Recommendation) String() string {
	switch r {
	case Go:
		return "GO"
	case Conditional:
		return "CONDITIONAL"
	case Cancel:
		return "CANCEL"
	default:
		return fmt.Sprintf("Recommendation(%d)", int(r))
	}
}

// Label returns the fixed display label shown to athletes
func (r Recommendation) Label() string {
	switch r {
	case Go:
		return "Trening naj bo!"
	case Conditional:
		return "POGOJNO"
	case Cancel:
		return "ODPOVEDANO"
	default:
		return "?"
	}
}

// Color returns the status panel colour
func (r Recommendation) Color() string {
	switch r {
	case Go:
		return "#4CAF50"
	case Conditional:
		return "#FFC107"
	case Cancel:
		return "#F44336"
	default:
		return "#999"
	}
}

// MoreSevere reports whether r outranks other
func (r Recommendation) MoreSevere(other Recommendation) bool {
	return r > other
}

func (r Recommendation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Recommendation) UnmarshalText(text []byte) error {
	parsed, err := ParseRecommendation(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRecommendation accepts the String form, case-insensitively
func ParseRecommendation(s string) (Recommendation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GO":
		return Go, nil
	case "CONDITIONAL":
		return Conditional, nil
	case "CANCEL":
		return Cancel, nil
	}
	return Go, fmt.Errorf("unknown recommendation %q", s)
}

// Worst is the severity-max of two recommendations
func Worst(a, b Recommendation) Recommendation {
	if b > a {
		return b
	}
	return a
}
