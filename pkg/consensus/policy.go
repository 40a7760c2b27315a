package consensus

import (
	"fmt"
	"math"
	"sort"

	"digital.vasic.polyglot/pkg/value"
)

// Anchor policy names.
const (
	AnchorFirst    = "first"
	AnchorMedian   = "median"
	AnchorPairwise = "pairwise"
)

// DefaultAnchor is the policy used when none is configured.
const DefaultAnchor = AnchorFirst

// Contribution is one runtime's finite numeric result for an
// example.
type Contribution struct {
	Runtime string
	Value   float64
}

// Disagreement names a runtime whose result did not agree. Peer
// is set when the runtime disagreed with one specific other
// runtime.
type Disagreement struct {
	Runtime string
	Peer    string
	Reason  string
}

func (d Disagreement) String() string {
	return d.Runtime + ": " + d.Reason
}

// Policy decides which contributions disagree. It receives finite
// numeric contributions in runtime order and returns the anchor it
// compared against, if any, and the disagreements found.
type Policy func(
	values []Contribution,
	tolerance float64,
) (anchor *float64, disagreements []Disagreement)

// Within reports whether a and b agree under tolerance. The bound
// is inclusive.
func Within(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// FirstAnchor compares every contribution against the first one.
func FirstAnchor(values []Contribution, tolerance float64) (*float64, []Disagreement) {
	if len(values) == 0 {
		return nil, nil
	}
	anchor := values[0]
	var failures []Disagreement
	for _, c := range values[1:] {
		if !Within(c.Value, anchor.Value, tolerance) {
			failures = append(failures, Disagreement{
				Runtime: c.Runtime,
				Reason: fmt.Sprintf(
					"%s differs from anchor %s (%s)",
					value.FormatFloat(c.Value),
					value.FormatFloat(anchor.Value), anchor.Runtime,
				),
			})
		}
	}
	a := anchor.Value
	return &a, failures
}

// MedianAnchor compares every contribution against the median, so
// a single outlier cannot become the anchor.
func MedianAnchor(values []Contribution, tolerance float64) (*float64, []Disagreement) {
	if len(values) == 0 {
		return nil, nil
	}
	sorted := make([]float64, len(values))
	for i, c := range values {
		sorted[i] = c.Value
	}
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	var failures []Disagreement
	for _, c := range values {
		if !Within(c.Value, median, tolerance) {
			failures = append(failures, Disagreement{
				Runtime: c.Runtime,
				Reason: fmt.Sprintf(
					"%s differs from median %s",
					value.FormatFloat(c.Value),
					value.FormatFloat(median),
				),
			})
		}
	}
	return &median, failures
}

// Pairwise requires every pair of contributions to agree. It has
// no anchor and is independent of runtime order.
func Pairwise(values []Contribution, tolerance float64) (*float64, []Disagreement) {
	var failures []Disagreement
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			a, b := values[i], values[j]
			if !Within(a.Value, b.Value, tolerance) {
				failures = append(failures, Disagreement{
					Runtime: b.Runtime,
					Peer:    a.Runtime,
					Reason: fmt.Sprintf(
						"%s differs from %s (%s)",
						value.FormatFloat(b.Value),
						value.FormatFloat(a.Value), a.Runtime,
					),
				})
			}
		}
	}
	return nil, failures
}

func defaultPolicies() map[string]Policy {
	return map[string]Policy{
		AnchorFirst:    FirstAnchor,
		AnchorMedian:   MedianAnchor,
		AnchorPairwise: Pairwise,
	}
}
