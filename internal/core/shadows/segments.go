package shadows

// BoundsSegments returns the four edges of a width by height world whose
// origin sits at (0,0).
func BoundsSegments(width, height float64) []Segment {
	return RectSegments(Rect{W: width, H: height})
}

// RectSegments returns the four edges of r, clockwise from the top edge.
func RectSegments(r Rect) []Segment {
	c := r.Corners()
	return []Segment{
		{A: c[0], B: c[1]},
		{A: c[1], B: c[2]},
		{A: c[2], B: c[3]},
		{A: c[3], B: c[0]},
	}
}

// BuildSegments assembles the occluder set for one sweep: the world boundary
// plus every blocker edge. The boundary keeps every ray bounded, so a sweep
// from inside the world always terminates on a segment.
func BuildSegments(width, height float64, blockers []Rect) []Segment {
	segments := make([]Segment, 0, 4+4*len(blockers))
	segments = append(segments, BoundsSegments(width, height)...)
	for _, b := range blockers {
		segments = append(segments, RectSegments(b)...)
	}
	return segments
}
