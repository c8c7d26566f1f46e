// Package lanes lays out overlapping intervals on the fewest vertical lanes.
package lanes

import "sort"

// Interval is a half-open [Start, End) range in minutes.
type Interval struct {
	ID    string
	Start int
	End   int
}

// Assignment is the result of Pack.
type Assignment struct {
	Lanes map[string]int
	Count int
}

// Lane returns the lane for id, or 0 when id was not packed.
func (a Assignment) Lane(id string) int {
	return a.Lanes[id]
}

// Pack assigns each interval the first lane whose previous interval has ended
// by the time it starts. Intervals are visited in start order, ties kept in
// input order, which makes the lane count equal to the maximum overlap.
// Touching intervals (end == start) share a lane.
func Pack(intervals []Interval) Assignment {
	ordered := make([]Interval, len(intervals))
	copy(ordered, intervals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	out := Assignment{Lanes: make(map[string]int, len(ordered))}
	var laneEnds []int
	for _, iv := range ordered {
		lane := -1
		for i, end := range laneEnds {
			if end <= iv.Start {
				lane = i
				break
			}
		}
		if lane < 0 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = iv.End
		out.Lanes[iv.ID] = lane
	}
	out.Count = len(laneEnds)
	return out
}

// MaxOverlap returns the largest number of intervals active at one instant.
func MaxOverlap(intervals []Interval) int {
	type edge struct {
		at    int
		delta int
	}
	edges := make([]edge, 0, 2*len(intervals))
	for _, iv := range intervals {
		if iv.End <= iv.Start {
			continue
		}
		edges = append(edges, edge{iv.Start, 1}, edge{iv.End, -1})
	}
	// Ends sort before starts at the same instant so touching intervals do not
	// count as overlapping.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at == edges[j].at {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at < edges[j].at
	})
	best, cur := 0, 0
	for _, e := range edges {
		cur += e.delta
		if cur > best {
			best = cur
		}
	}
	return best
}
