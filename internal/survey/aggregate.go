package survey

import "math"

// Distribution tallies responses by label. Its total always equals the
// number of values that survived grouping and exclusion.
type Distribution map[string]int

func (d Distribution) Total() int {
	total := 0
	for _, c := range d {
		total += c
	}
	return total
}

// Percentages converts counts to percentages rounded to one decimal.
// An empty distribution yields an empty map, never NaN.
func (d Distribution) Percentages() map[string]float64 {
	total := d.Total()
	out := make(map[string]float64, len(d))
	if total == 0 {
		return out
	}
	for label, count := range d {
		out[label] = round1(float64(count) / float64(total) * 100)
	}
	return out
}

// Share is the percentage held by one label, 0 when the distribution is empty.
func (d Distribution) Share(label string) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return round1(float64(d[label]) / float64(total) * 100)
}

// PositiveRate is the grouped-mode headline metric.
func (d Distribution) PositiveRate() float64 { return d.Share(Positive) }

// AgreeRate is the ungrouped headline metric: Strongly Agree plus Agree.
func (d Distribution) AgreeRate() float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return round1(float64(d[StronglyAgree]+d[Agree]) / float64(total) * 100)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

var groupedMapping = map[string]string{
	StronglyAgree:    Positive,
	Agree:            Positive,
	StronglyDisagree: Negative,
	Disagree:         Negative,
	DontKnow:         DontKnow,
}

// GroupResponses transforms a sequence of response labels per the display
// options. In grouped mode the five-point scale collapses to
// Positive/Negative/Don't Know and values outside the scale are dropped
// (there is no grouped form for stray text, or for already-grouped labels).
// Ungrouped mode passes values through untouched. The Don't Know exclusion
// applies after grouping in both modes.
func GroupResponses(values []string, groupMode, excludeDontKnow bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if groupMode {
			mapped, ok := groupedMapping[v]
			if !ok {
				continue
			}
			v = mapped
		}
		if excludeDontKnow && v == DontKnow {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ResponseDistribution pools the responses of the given columns into one
// distribution: missing cells are dropped per column, grouping and exclusion
// applied, and every remaining value tallied. Each respondent contributes one
// tally per question answered. No surviving values is a valid empty result.
func ResponseDistribution(t *Table, columns []string, groupMode, excludeDontKnow bool) Distribution {
	dist := make(Distribution)
	for _, col := range columns {
		for _, v := range GroupResponses(t.ColumnValues(col), groupMode, excludeDontKnow) {
			dist[v]++
		}
	}
	return dist
}

// ResponseOrder is the canonical chart order for the current display options.
func ResponseOrder(groupMode, excludeDontKnow bool) []string {
	if groupMode {
		if excludeDontKnow {
			return []string{Positive, Negative}
		}
		return []string{Positive, DontKnow, Negative}
	}
	if excludeDontKnow {
		return []string{StronglyAgree, Agree, Disagree, StronglyDisagree}
	}
	return []string{StronglyAgree, Agree, DontKnow, Disagree, StronglyDisagree}
}
