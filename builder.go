package rtree

import (
	"math"
	"sort"
)

// DefaultAlpha is the quantile bias used by Rebuild when the caller doesn't
// pick one explicitly. Grounded on original_source's tree_builder default;
// 0 would seed both halves of every split from the exact extremes, 0.5
// degenerates toward a simple median cut. 0.45 sits just off the median
// without collapsing into either.
const DefaultAlpha = 0.45

// buildStatic rebuilds os's tree structure from scratch over every live
// data record, using the LR (least-recursive, alpha-quantile) bulk-load
// algorithm: a balanced recursive binary partition by whichever axis has
// the greatest spread, seeded away from the exact extremes by alpha so
// that outliers don't dominate an entire subtree. Grounded on
// original_source's tree_builder.rs (build / build_node / split_groups /
// split_into_2_groups / find_sort_axis_index).
func buildStatic[C Number, O any](os *ObjSpace[C, O], alpha float64, log sink) {
	ids := os.IterDataIDs()
	os.clearTreeStructure()
	if len(ids) == 0 {
		return
	}

	if len(ids) <= os.maxRecords {
		for _, id := range ids {
			os.addChild(RootID, id, os.GetMBR(id))
		}
		log.Debugf("buildStatic: %d records fit directly under root", len(ids))
		return
	}

	level := buildLevel(len(ids), os.maxRecords)
	childNum := groupCount(len(ids), level)
	groups := splitGroups(os, ids, childNum, alpha)
	log.Debugf("buildStatic: %d records, level=%d, %d top-level groups", len(ids), level, len(groups))
	for _, g := range groups {
		child := buildNode(os, RootID, g, level-1, alpha, log)
		os.addChild(RootID, child, os.GetMBR(child))
	}
}

// buildLevel computes how many internal levels separate the root's
// children from the leaves, for n records at a branching factor of
// maxRecords.
func buildLevel(n, maxRecords int) int {
	if n <= maxRecords {
		return 0
	}
	return int(math.Ceil(math.Log(float64(n)) / math.Log(float64(maxRecords))))
}

// groupCount is the number of children a node at this level should fan out
// into to keep the subtree balanced down to the leaves.
func groupCount(n, level int) int {
	if level <= 0 {
		return 1
	}
	c := int(math.Ceil(math.Pow(float64(n), 1/float64(level+1))))
	if c < 2 {
		c = 2
	}
	return c
}

// buildNode builds one subtree over ids at the given level (0 == the
// subtree's children are data records) and returns its RecordId, with its
// parent link set to parent and its MBR set. It is not appended to parent's
// children; the caller does that.
func buildNode[C Number, O any](os *ObjSpace[C, O], parent RecordId, ids []RecordId, level int, alpha float64, log sink) RecordId {
	if level <= 0 || len(ids) <= os.maxRecords {
		node := os.makeNode(parent, true)
		for _, id := range ids {
			os.addChild(node, id, os.GetMBR(id))
		}
		return node
	}

	node := os.makeNode(parent, false)
	childNum := groupCount(len(ids), level)
	groups := splitGroups(os, ids, childNum, alpha)
	for _, g := range groups {
		child := buildNode(os, node, g, level-1, alpha, log)
		os.addChild(node, child, os.GetMBR(child))
	}
	return node
}

// splitGroups partitions ids into k roughly-equal groups by repeated
// binary halving: split into two parts sized proportionally to k/2 and
// k-k/2, then recurse on each part with its own target count. A part of
// maxRecords or fewer ids is not split further, so fewer than k groups can
// come back. Mirrors split_groups's recursive-halving shape.
func splitGroups[C Number, O any](os *ObjSpace[C, O], ids []RecordId, k int, alpha float64) [][]RecordId {
	if k <= 1 || len(ids) <= os.maxRecords {
		return [][]RecordId{ids}
	}
	firstCoeff := k / 2
	secondCoeff := k - firstCoeff

	left, right := splitInto2Groups(os, ids, firstCoeff, secondCoeff, alpha)

	out := splitGroups(os, left, firstCoeff, alpha)
	out = append(out, splitGroups(os, right, secondCoeff, alpha)...)
	return out
}

// splitInto2Groups divides ids into two groups sized proportionally to
// coeff1:coeff2, along whichever axis has the greatest dispersion. The two
// seeds are taken from the alpha-quantile and (1-alpha)-quantile positions
// of the sort, rather than the bare extremes, so a single far outlier
// doesn't anchor an entire half of the partition; every remaining id is
// then placed on whichever side has a smaller volume cost, subject to the
// proportional size target. Mirrors split_into_2_groups /
// find_sort_axis_index.
func splitInto2Groups[C Number, O any](os *ObjSpace[C, O], ids []RecordId, coeff1, coeff2 int, alpha float64) ([]RecordId, []RecordId) {
	axis := dispersionAxis(os, ids)

	sorted := make([]RecordId, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		mi := midpoint(os.GetMBR(sorted[i]).Bounds(axis))
		mj := midpoint(os.GetMBR(sorted[j]).Bounds(axis))
		return mi < mj
	})

	n := len(sorted)
	targetLeft := int(math.Round(float64(n) * float64(coeff1) / float64(coeff1+coeff2)))
	if targetLeft < 1 {
		targetLeft = 1
	}
	if targetLeft > n-1 {
		targetLeft = n - 1
	}

	lowSeedIdx := int(alpha * float64(n-1))
	highSeedIdx := n - 1 - lowSeedIdx
	if highSeedIdx <= lowSeedIdx {
		highSeedIdx = lowSeedIdx + 1
		if highSeedIdx >= n {
			highSeedIdx = n - 1
		}
	}

	left := []RecordId{sorted[lowSeedIdx]}
	right := []RecordId{sorted[highSeedIdx]}
	leftMBR := os.GetMBR(sorted[lowSeedIdx])
	rightMBR := os.GetMBR(sorted[highSeedIdx])
	used := map[int]bool{lowSeedIdx: true, highSeedIdx: true}

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}
		m := os.GetMBR(sorted[i])
		placeLeft := i < targetLeft
		if len(left) >= targetLeft {
			placeLeft = false
		} else if len(right) >= n-targetLeft {
			placeLeft = true
		} else {
			dl := Delta(leftMBR, m)
			dr := Delta(rightMBR, m)
			placeLeft = dl < dr || (dl == dr && i < targetLeft)
		}
		if placeLeft {
			left = append(left, sorted[i])
			leftMBR = CommonMBR(leftMBR, m)
		} else {
			right = append(right, sorted[i])
			rightMBR = CommonMBR(rightMBR, m)
		}
	}

	return left, right
}

// dispersionAxis picks the axis along which ids are most spread out: the
// axis maximizing (maxLow - minHigh) / (highest - lowest), i.e. the axis
// where the inner gap between the most-overlapping bounds is largest
// relative to the overall span. Mirrors find_sort_axis_index.
func dispersionAxis[C Number, O any](os *ObjSpace[C, O], ids []RecordId) int {
	dim := os.GetMBR(ids[0]).Dimension()
	bestAxis := 0
	var bestRatio float64 = math.Inf(-1)

	for axis := 0; axis < dim; axis++ {
		b0 := os.GetMBR(ids[0]).Bounds(axis)
		maxLow, minHigh := b0.Min, b0.Max
		lowest, highest := b0.Min, b0.Max
		for _, id := range ids[1:] {
			b := os.GetMBR(id).Bounds(axis)
			if b.Min > maxLow {
				maxLow = b.Min
			}
			if b.Max < minHigh {
				minHigh = b.Max
			}
			if b.Min < lowest {
				lowest = b.Min
			}
			if b.Max > highest {
				highest = b.Max
			}
		}
		span := highest - lowest
		var ratio float64
		if span > 0 {
			ratio = float64(maxLow-minHigh) / float64(span)
		}
		if ratio > bestRatio {
			bestRatio = ratio
			bestAxis = axis
		}
	}
	return bestAxis
}

func midpoint[C Number](b Bounds[C]) float32 {
	return float32(b.Min)/2 + float32(b.Max)/2
}
