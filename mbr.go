package rtree

import "fmt"

// Number is the coordinate domain the tree is generic over. It covers the
// arithmetic the engine needs (addition, subtraction, multiplication,
// division, a total-ish ordering via <, >) plus a cast to float32, which the
// static builder uses to derive stable sort keys. No ecosystem numeric
// constraint package is wired by any repo in the retrieval pack, so this is
// hand-rolled rather than imported (see DESIGN.md).
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Bounds is the one-dimensional extent of an MBR along a single axis.
// Invariant: Min <= Max, except on values that are never read (see MBR's
// undefined sentinel).
type Bounds[C Number] struct {
	Min C
	Max C
}

// Length returns Max - Min.
func (b Bounds[C]) Length() C { return b.Max - b.Min }

// Contains reports whether v lies within [Min, Max], inclusive.
func (b Bounds[C]) Contains(v C) bool { return b.Min <= v && v <= b.Max }

// MBR is a minimum bounding rectangle: an ordered sequence of per-axis
// Bounds. A zero-length (nil) Bounds slice is the undefined sentinel used
// for nodes that have been allocated but not yet populated (see ObjSpace).
type MBR[C Number] struct {
	bounds []Bounds[C]
}

// NewMBR builds an MBR from one Bounds value per axis, in axis order.
// Panics if bounds is empty — use UndefinedMBR for that case explicitly.
func NewMBR[C Number](bounds ...Bounds[C]) MBR[C] {
	if len(bounds) == 0 {
		fail("NewMBR", "an MBR needs at least one axis; use UndefinedMBR() for the sentinel")
	}
	cp := make([]Bounds[C], len(bounds))
	copy(cp, bounds)
	return MBR[C]{bounds: cp}
}

// UndefinedMBR returns the zero-dimension sentinel: it intersects
// everything, and common_mbr treats it as the additive identity.
func UndefinedMBR[C Number]() MBR[C] {
	return MBR[C]{}
}

// IsUndefined reports whether m is the sentinel MBR.
func (m MBR[C]) IsUndefined() bool { return len(m.bounds) == 0 }

// Dimension returns the number of axes, or 0 for the undefined sentinel.
func (m MBR[C]) Dimension() int { return len(m.bounds) }

// Bounds returns the Bounds for axis i. Panics on the undefined sentinel or
// an out-of-range axis — both are precondition violations per spec §7.
func (m MBR[C]) Bounds(i int) Bounds[C] {
	if i < 0 || i >= len(m.bounds) {
		fail("MBR.Bounds", "axis %d out of range for dimension %d", i, len(m.bounds))
	}
	return m.bounds[i]
}

// Volume is the product of the per-axis lengths; zero for the undefined
// sentinel.
func (m MBR[C]) Volume() C {
	var volume C
	if len(m.bounds) == 0 {
		return volume
	}
	volume = m.bounds[0].Length()
	for _, b := range m.bounds[1:] {
		volume *= b.Length()
	}
	return volume
}

func (m MBR[C]) String() string {
	if m.IsUndefined() {
		return "MBR{/undefined/}"
	}
	s := "MBR{"
	for i, b := range m.bounds {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("x%d:[%v;%v]", i, b.Min, b.Max)
	}
	return s + "}"
}

// Intersects reports whether a and b overlap on every axis, edge touches
// included. The undefined MBR intersects anything, acting as "no constraint
// yet". Per spec §4.1/§9, two well-formed MBRs of mismatched positive
// dimensions are a programming error, not a silently-projected comparison —
// the historic "ignore extra axes" behavior is preserved only for the
// sentinel.
func Intersects[C Number](a, b MBR[C]) bool {
	if a.IsUndefined() || b.IsUndefined() {
		return true
	}
	if len(a.bounds) != len(b.bounds) {
		fail("Intersects", "mismatched positive dimensions: %d vs %d", len(a.bounds), len(b.bounds))
	}
	for i := range a.bounds {
		ab, bb := a.bounds[i], b.bounds[i]
		if !(ab.Contains(bb.Min) || ab.Contains(bb.Max) || bb.Contains(ab.Min)) {
			return false
		}
	}
	return true
}

// CommonMBR returns the per-axis (min of mins, max of maxes) of a and b.
// The undefined MBR acts as the identity element: common_mbr(undefined, x)
// == x, and common_mbr(undefined, undefined) == undefined.
func CommonMBR[C Number](a, b MBR[C]) MBR[C] {
	if a.IsUndefined() {
		return b
	}
	if b.IsUndefined() {
		return a
	}
	if len(a.bounds) != len(b.bounds) {
		fail("CommonMBR", "mismatched positive dimensions: %d vs %d", len(a.bounds), len(b.bounds))
	}
	bounds := make([]Bounds[C], len(a.bounds))
	for i := range a.bounds {
		min := a.bounds[i].Min
		if b.bounds[i].Min < min {
			min = b.bounds[i].Min
		}
		max := a.bounds[i].Max
		if b.bounds[i].Max > max {
			max = b.bounds[i].Max
		}
		bounds[i] = Bounds[C]{Min: min, Max: max}
	}
	return MBR[C]{bounds: bounds}
}

// commonMBRAll folds CommonMBR across a sequence of MBRs, starting from the
// undefined identity — mirrors common_mbr_from_iter in the original source.
func commonMBRAll[C Number](mbrs []MBR[C]) MBR[C] {
	common := UndefinedMBR[C]()
	for _, m := range mbrs {
		common = CommonMBR(common, m)
	}
	return common
}

// Delta is the volume cost of absorbing add into src: the growth in volume
// that would result from enlarging src's MBR to also cover add.
func Delta[C Number](src, add MBR[C]) C {
	return CommonMBR(src, add).Volume() - src.Volume()
}
