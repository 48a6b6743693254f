// Package hull computes the lower convex hull of points in the
// composition-energy plane of a binary system.
//
// The abscissa is the atomic fraction of the second element, the ordinate
// is energy per atom. Points on the lower hull are the thermodynamically
// stable compositions; any point strictly above a hull segment decomposes
// into the two segment endpoints.
package hull

import "sort"

// Point is one (fraction, energy) pair.
type Point struct {
	X float64
	Y float64
}

// Cross returns the z component of (a-o) x (b-o).
// Positive means o→a→b turns counter-clockwise.
func Cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// SortedUnique returns indices of points ordered by x ascending, keeping only
// the lowest-y point for each distinct x. Exact ties in both x and y keep the
// lowest index so the result does not depend on sort stability.
func SortedUnique(points []Point) []int {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		pi, pj := points[order[i]], points[order[j]]
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		if pi.Y != pj.Y {
			return pi.Y < pj.Y
		}
		return order[i] < order[j]
	})

	unique := order[:0]
	for _, idx := range order {
		if len(unique) > 0 && points[unique[len(unique)-1]].X == points[idx].X {
			continue
		}
		unique = append(unique, idx)
	}
	return unique
}

// LowerHull returns the indices of the lower hull vertices, ordered by x.
//
// Uses the monotone chain scan: a point is popped while the last two stack
// points and the next point fail to make a strict counter-clockwise turn.
// Collinear middle points are therefore not vertices. With fewer than two
// distinct x values the deduplicated points are returned unchanged.
//
// Complexity: O(n log n).
func LowerHull(points []Point) []int {
	unique := SortedUnique(points)
	if len(unique) < 2 {
		return unique
	}

	stack := make([]int, 0, len(unique))
	for _, idx := range unique {
		for len(stack) >= 2 &&
			Cross(points[stack[len(stack)-2]], points[stack[len(stack)-1]], points[idx]) <= 0 {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, idx)
	}
	return stack
}

// Segment locates the hull segment covering x. vertices must be ordered by x
// as returned by LowerHull. It returns the left and right positions in
// vertices and ok=false when x lies outside the hull span or the hull has
// fewer than two vertices. When x coincides with a vertex, left == right.
func Segment(points []Point, vertices []int, x float64) (left, right int, ok bool) {
	if len(vertices) < 2 {
		return 0, 0, false
	}
	if x < points[vertices[0]].X || x > points[vertices[len(vertices)-1]].X {
		return 0, 0, false
	}

	// first vertex with X >= x
	k := sort.Search(len(vertices), func(i int) bool {
		return points[vertices[i]].X >= x
	})
	if points[vertices[k]].X == x {
		return k, k, true
	}
	return k - 1, k, true
}

// EnergyAt returns the hull energy at x by linear interpolation.
func EnergyAt(points []Point, vertices []int, x float64) (float64, bool) {
	l, r, ok := Segment(points, vertices, x)
	if !ok {
		return 0, false
	}
	pl, pr := points[vertices[l]], points[vertices[r]]
	if l == r {
		return pl.Y, true
	}
	t := (x - pl.X) / (pr.X - pl.X)
	return pl.Y + t*(pr.Y-pl.Y), true
}
