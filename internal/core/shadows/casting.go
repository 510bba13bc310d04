package shadows

import (
	"math"
	"sort"
)

const (
	// angleEpsilon nudges a candidate ray to both sides of each vertex so
	// corner grazes resolve to the surfaces behind them instead of landing
	// exactly on an endpoint.
	angleEpsilon = 1e-5

	// mergeEpsilon folds hit points closer together than this into one.
	// The three rays aimed around a convex corner all land within a
	// fraction of a unit of the corner; the farthest of the cluster is the
	// corner itself.
	mergeEpsilon = 0.1
)

// VisibilityPolygon computes the region visible from origin inside the world
// bounds, occluded by the given blocker rectangles. The result is the ordered
// boundary only; callers triangulating add origin as the fan apex.
func VisibilityPolygon(origin Point, width, height float64, blockers []Rect) []Point {
	return ComputeVisibilityPolygon(origin, BuildSegments(width, height, blockers))
}

// ComputeVisibilityPolygon casts rays from origin toward every segment vertex
// and returns the closest hit per candidate angle, ordered by angle ascending.
func ComputeVisibilityPolygon(origin Point, segments []Segment) []Point {
	vertices := collectVertices(segments)

	angles := make([]float64, 0, len(vertices)*3)
	for _, vertex := range vertices {
		angle := math.Atan2(vertex.Y-origin.Y, vertex.X-origin.X)
		angles = append(angles, angle-angleEpsilon, angle, angle+angleEpsilon)
	}

	// Normalize to [0, 2pi), drop duplicates, sort ascending.
	seen := make(map[float64]bool, len(angles))
	unique := make([]float64, 0, len(angles))
	for _, angle := range angles {
		normalized := math.Mod(angle, 2*math.Pi)
		if normalized < 0 {
			normalized += 2 * math.Pi
		}
		if !seen[normalized] {
			seen[normalized] = true
			unique = append(unique, normalized)
		}
	}
	sort.Float64s(unique)

	var boundary []Point
	for _, angle := range unique {
		dx := math.Cos(angle)
		dy := math.Sin(angle)

		hit := false
		closest := math.Inf(1)
		var closestPoint Point
		for _, seg := range segments {
			ok, dist, point := raySegmentIntersection(origin, dx, dy, seg)
			if ok && dist < closest {
				hit = true
				closest = dist
				closestPoint = point
			}
		}
		// A ray that escapes every segment contributes nothing. With the
		// world boundary in the segment set this only happens when the
		// origin sits outside the bounds.
		if !hit {
			continue
		}
		boundary = appendMerged(boundary, origin, closestPoint)
	}

	// The first and last hits can straddle the zero-angle seam as one
	// corner cluster.
	if n := len(boundary); n > 1 && Distance(boundary[0], boundary[n-1]) < mergeEpsilon {
		if Distance(origin, boundary[n-1]) > Distance(origin, boundary[0]) {
			boundary = boundary[1:]
		} else {
			boundary = boundary[:n-1]
		}
	}

	return boundary
}

// appendMerged appends hit to boundary, folding it into the previous point
// when the two are within mergeEpsilon. The farther point survives a fold.
func appendMerged(boundary []Point, origin, hit Point) []Point {
	if n := len(boundary); n > 0 && Distance(boundary[n-1], hit) < mergeEpsilon {
		if Distance(origin, hit) > Distance(origin, boundary[n-1]) {
			boundary[n-1] = hit
		}
		return boundary
	}
	return append(boundary, hit)
}

// collectVertices extracts all unique endpoint vertices from segments
func collectVertices(segments []Segment) []Point {
	vertexMap := make(map[Point]bool, len(segments)*2)
	for _, seg := range segments {
		vertexMap[seg.A] = true
		vertexMap[seg.B] = true
	}

	vertices := make([]Point, 0, len(vertexMap))
	for vertex := range vertexMap {
		vertices = append(vertices, vertex)
	}
	return vertices
}

// raySegmentIntersection checks if a ray intersects a line segment
// Returns: (intersects bool, distance float64, intersection point Point)
func raySegmentIntersection(origin Point, dx, dy float64, seg Segment) (bool, float64, Point) {
	// Ray: P = origin + t * (dx, dy) for t >= 0
	// Segment: Q = seg.A + u * (seg.B - seg.A) for 0 <= u <= 1

	segDX := seg.B.X - seg.A.X
	segDY := seg.B.Y - seg.A.Y

	denominator := dx*segDY - dy*segDX
	if math.Abs(denominator) < 1e-10 {
		// Ray and segment are parallel
		return false, 0, Point{}
	}

	diffX := seg.A.X - origin.X
	diffY := seg.A.Y - origin.Y

	t := (diffX*segDY - diffY*segDX) / denominator
	u := (dy*diffX - dx*diffY) / denominator

	// Hit must lie on the segment and ahead of the origin
	if u < 0 || u > 1 || t < 0 {
		return false, 0, Point{}
	}

	return true, t, Point{X: origin.X + t*dx, Y: origin.Y + t*dy}
}
