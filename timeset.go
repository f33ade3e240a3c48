package animgraph

import (
	"math"
	"sort"
)

// TimeSet is a sorted set of timeline instants. Times within timeEpsilon of
// one another are the same member. The zero value is an empty set.
type TimeSet struct {
	times []Time
}

// NewTimeSet returns a set holding ts.
func NewTimeSet(ts ...Time) TimeSet {
	var s TimeSet
	for _, t := range ts {
		s.Add(t)
	}
	return s
}

// search returns the index of the first member not before t.
func (s *TimeSet) search(t Time) int {
	return sort.Search(len(s.times), func(i int) bool {
		return !s.times[i].Before(t)
	})
}

// Add inserts t. It reports whether the set grew.
func (s *TimeSet) Add(t Time) bool {
	i := s.search(t)
	if i < len(s.times) && s.times[i].Equal(t) {
		return false
	}
	s.times = append(s.times, 0)
	copy(s.times[i+1:], s.times[i:])
	s.times[i] = t
	return true
}

// Merge adds every member of o.
func (s *TimeSet) Merge(o TimeSet) {
	for _, t := range o.times {
		s.Add(t)
	}
}

// Contains reports whether t is a member.
func (s TimeSet) Contains(t Time) bool {
	i := s.search(t)
	return i < len(s.times) && s.times[i].Equal(t)
}

// Len returns the number of members.
func (s TimeSet) Len() int { return len(s.times) }

// Slice returns the members in ascending order as a new slice.
func (s TimeSet) Slice() []Time {
	out := make([]Time, len(s.times))
	copy(out, s.times)
	return out
}

// Next returns the first member strictly after t.
func (s TimeSet) Next(t Time) (Time, bool) {
	for _, m := range s.times {
		if m.After(t) {
			return m, true
		}
	}
	return 0, false
}

// Prev returns the last member strictly before t.
func (s TimeSet) Prev(t Time) (Time, bool) {
	for i := len(s.times) - 1; i >= 0; i-- {
		if s.times[i].Before(t) {
			return s.times[i], true
		}
	}
	return 0, false
}

// Closest returns the member nearest to t if it lies within scope.
func (s TimeSet) Closest(t, scope Time) (Time, bool) {
	if len(s.times) == 0 {
		return 0, false
	}
	i := s.search(t)
	best, dist := Time(0), math.Inf(1)
	if i < len(s.times) {
		best, dist = s.times[i], math.Abs(float64(s.times[i]-t))
	}
	if i > 0 {
		if d := math.Abs(float64(s.times[i-1] - t)); d < dist {
			best, dist = s.times[i-1], d
		}
	}
	if dist <= float64(scope) {
		return best, true
	}
	return 0, false
}

// Shift returns a new set with every member moved by dt and scaled around
// zero by k, as used for canvases with a time offset and dilation.
func (s TimeSet) Shift(dt Time, k float64) TimeSet {
	var out TimeSet
	for _, t := range s.times {
		out.Add((t - dt) * Time(k))
	}
	return out
}
