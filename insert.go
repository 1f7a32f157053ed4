package rtree

// InsertHandler lets a caller observe an insertion; neither hook can
// cancel it. BeforeInsert is
// called with the data's MBR before any tree structure changes; AfterInsert is
// called once the new record is fully linked in and every ancestor MBR has
// been fixed up. Both default to no-ops; embed DefaultInsertHandler to get
// that without declaring empty methods yourself. Grounded on
// original_source's InsertHandler trait.
type InsertHandler[C Number, O any] interface {
	BeforeInsert(mbr MBR[C], payload O)
	AfterInsert(id RecordId, mbr MBR[C], payload O)
}

// DefaultInsertHandler is a no-op InsertHandler suitable for embedding.
type DefaultInsertHandler[C Number, O any] struct{}

func (DefaultInsertHandler[C, O]) BeforeInsert(MBR[C], O)            {}
func (DefaultInsertHandler[C, O]) AfterInsert(RecordId, MBR[C], O) {}

// insert adds a new data record with the given mbr and payload to os,
// invoking handler's hooks around the structural work, and returns the new
// record's RecordId. Panics if mbr's dimension does not match os's.
func insert[C Number, O any](os *ObjSpace[C, O], mbr MBR[C], payload O, handler InsertHandler[C, O], log sink) RecordId {
	if mbr.Dimension() != os.dimension {
		fail("Insert", "mbr has dimension %d, space has dimension %d", mbr.Dimension(), os.dimension)
	}
	handler.BeforeInsert(mbr, payload)

	id := os.makeDataNode(RecordId{}, mbr, payload)
	insertHelper(os, RootID, id, mbr, log)

	handler.AfterInsert(id, mbr, payload)
	return id
}

// insertHelper descends from node to a leaf via selectNode, binds id there
// (splitting if the leaf overflows), and fixes up every ancestor's MBR.
func insertHelper[C Number, O any](os *ObjSpace[C, O], node RecordId, id RecordId, mbr MBR[C], log sink) {
	leaf := selectNode(os, node, mbr, log)

	leafNode := os.getNode(leaf)
	leafNode.addChild(id, mbr)
	os.setParentInfo(id, leaf)

	var pendingSibling RecordId
	hasSibling := false
	if len(leafNode.children) > os.maxRecords {
		log.Debugf("insert: leaf %s overflowed with %d children, splitting", leaf, len(leafNode.children))
		pendingSibling = splitNode(os, leaf)
		hasSibling = true
	}

	fixTree(os, leaf, pendingSibling, hasSibling, log)
}

// selectNode descends from node to the leaf that should receive a new
// record with the given mbr, at each level picking the child whose MBR
// would grow the least to absorb mbr, breaking ties by the smaller
// resulting volume. Mirrors original_source's select_node.
func selectNode[C Number, O any](os *ObjSpace[C, O], node RecordId, mbr MBR[C], log sink) RecordId {
	current := node
	for {
		n := os.getNode(current)
		if isLeafLevel[C](current, n) {
			return current
		}
		// A non-leaf internal node's children are themselves internal
		// nodes/leaves; choose the best one and keep descending.
		best := n.children[0]
		bestDelta := Delta(os.GetMBR(best), mbr)
		bestVolume := os.GetMBR(best).Volume()
		for _, child := range n.children[1:] {
			childMBR := os.GetMBR(child)
			d := Delta(childMBR, mbr)
			if d < bestDelta || (d == bestDelta && childMBR.Volume() < bestVolume) {
				best = child
				bestDelta = d
				bestVolume = childMBR.Volume()
			}
		}
		current = best
	}
}

// isLeafLevel reports whether n's children are data records rather than
// further internal nodes. A node explicitly tagged kindLeaf always is; an
// otherwise-tagged node (notably Root, which carries no leaf/internal tag
// of its own) is judged by its first child, or treated as a leaf when
// empty so that inserting into a brand new tree has somewhere to land.
func isLeafLevel[C Number](r RecordId, n *internalNode[C]) bool {
	if r.kind == kindLeaf {
		return true
	}
	if len(n.children) == 0 {
		return true
	}
	return n.children[0].kind == kindData
}

// fixTree walks the parent chain from node upward, recomputing each
// ancestor's MBR from its children and, while sibling is pending, binding
// it into the ancestor (splitting again if that overflows it). If the walk
// reaches Root with a sibling still pending, a new root is grown above the
// old one. Mirrors original_source's fix_tree.
func fixTree[C Number, O any](os *ObjSpace[C, O], node RecordId, sibling RecordId, hasSibling bool, log sink) {
	current := node
	for {
		parent := os.parentOf(current)
		isRootCurrent := current.IsRoot()

		if isRootCurrent {
			if !hasSibling {
				return
			}
			growRoot(os, current, sibling, log)
			return
		}

		parentNode := os.getNode(parent)
		recomputeMBR(os, parent)

		if hasSibling {
			siblingMBR := os.GetMBR(sibling)
			parentNode.addChild(sibling, siblingMBR)
			hasSibling = false
			if len(parentNode.children) > os.maxRecords {
				log.Debugf("fixTree: parent %s overflowed with %d children, splitting", parent, len(parentNode.children))
				sibling = splitNode(os, parent)
				hasSibling = true
			}
		}

		current = parent
	}
}

// recomputeMBR recomputes the MBR of the internal node named by r from its
// current children, from scratch.
func recomputeMBR[C Number, O any](os *ObjSpace[C, O], r RecordId) {
	n := os.getNode(r)
	mbrs := make([]MBR[C], len(n.children))
	for i, child := range n.children {
		mbrs[i] = os.GetMBR(child)
	}
	n.setMBR(commonMBRAll(mbrs))
}

// growRoot is called when the old root itself overflowed and split: it
// moves the root's current children into a freshly allocated node and
// gives the root slot that node and sibling as its only two children, so
// the tree grows by one level. oldRootRecord must be RootID.
func growRoot[C Number, O any](os *ObjSpace[C, O], oldRootRecord RecordId, sibling RecordId, log sink) {
	oldRootNode := os.getNode(oldRootRecord)
	oldChildren := oldRootNode.children
	oldMBR := oldRootNode.mbr

	// Demote the current root contents into a fresh internal node so the
	// Root slot can become a genuinely new, empty top node.
	demotedKind := kindInternal
	if len(oldChildren) > 0 && oldChildren[0].kind == kindData {
		demotedKind = kindLeaf
	}
	demotedID := os.nodes.insert(newInternalNode[C](RootID))
	demoted := RecordId{kind: demotedKind, id: nodeID(demotedID)}
	// os.nodes may have just grown its backing slice, so oldRootNode above
	// can no longer be trusted; re-resolve both nodes fresh before mutating.
	demotedNode := os.nodes.get(demotedID)
	demotedNode.children = oldChildren
	demotedNode.setMBR(oldMBR)
	for _, child := range oldChildren {
		os.setParentInfo(child, demoted)
	}

	os.setParentInfo(sibling, RootID)

	oldRootNode = os.getNode(oldRootRecord)
	oldRootNode.children = []RecordId{demoted, sibling}
	oldRootNode.setMBR(CommonMBR(oldMBR, os.GetMBR(sibling)))
	log.Debugf("growRoot: tree height increased, new root has 2 children")
}

// splitNode redistributes the overflowing children of the node named by r
// across r (reused in place) and a freshly allocated sibling, returning the
// sibling's RecordId. Mirrors original_source's split_node: a deterministic
// seed pair is chosen first (select_first_pair), then the rest are placed
// greedily, with an underflow guard that dumps all the remaining children
// onto a side as soon as that side needs every one of them to reach
// minRecords.
func splitNode[C Number, O any](os *ObjSpace[C, O], r RecordId) RecordId {
	n := os.getNode(r)
	leafLevel := len(n.children) == 0 || n.children[0].kind == kindData
	children := n.abortChildren()

	siblingKind := kindInternal
	if leafLevel {
		siblingKind = kindLeaf
	}
	siblingID := os.nodes.insert(newInternalNode[C](os.parentOf(r)))
	sibling := RecordId{kind: siblingKind, id: nodeID(siblingID)}

	firstA, firstB := selectFirstPair(os, children)

	lhs := []RecordId{children[firstA]}
	rhs := []RecordId{children[firstB]}
	lhsMBR := os.GetMBR(children[firstA])
	rhsMBR := os.GetMBR(children[firstB])

	remaining := make([]RecordId, 0, len(children)-2)
	for i, c := range children {
		if i == firstA || i == firstB {
			continue
		}
		remaining = append(remaining, c)
	}

	for len(remaining) > 0 {
		minRecords := os.minRecords
		if minRecords-len(lhs) >= len(remaining) {
			lhs = append(lhs, remaining...)
			for _, c := range remaining {
				lhsMBR = CommonMBR(lhsMBR, os.GetMBR(c))
			}
			remaining = nil
			break
		}
		if minRecords-len(rhs) >= len(remaining) {
			rhs = append(rhs, remaining...)
			for _, c := range remaining {
				rhsMBR = CommonMBR(rhsMBR, os.GetMBR(c))
			}
			remaining = nil
			break
		}

		next := remaining[0]
		remaining = remaining[1:]
		nextMBR := os.GetMBR(next)
		dLhs := Delta(lhsMBR, nextMBR)
		dRhs := Delta(rhsMBR, nextMBR)

		placeOnLhs := dLhs < dRhs
		if dLhs == dRhs {
			placeOnLhs = lhsMBR.Volume() <= rhsMBR.Volume()
		}
		if placeOnLhs {
			lhs = append(lhs, next)
			lhsMBR = CommonMBR(lhsMBR, nextMBR)
		} else {
			rhs = append(rhs, next)
			rhsMBR = CommonMBR(rhsMBR, nextMBR)
		}
	}

	// os.nodes.insert above may have grown the arena's backing slice, so n
	// from before that call can no longer be trusted; re-resolve it.
	n = os.getNode(r)
	n.children = lhs
	n.setMBR(lhsMBR)
	for _, c := range lhs {
		os.setParentInfo(c, r)
	}

	sn := os.nodes.get(siblingID)
	sn.children = rhs
	sn.setMBR(rhsMBR)
	for _, c := range rhs {
		os.setParentInfo(c, sibling)
	}

	return sibling
}

// selectFirstPair picks the two children that should seed opposite sides
// of a split: for each axis, compute the normalized separation (gap
// between the higher-of-the-lows and lower-of-the-highs, divided by that
// axis's span); the axis with the smallest such score is the one where the
// children overlap least, so it's chosen, and the two most extreme
// children on that axis seed the two groups. Mirrors original_source's
// select_first_pair, which picks the axis via min_by over this same score.
func selectFirstPair[C Number, O any](os *ObjSpace[C, O], children []RecordId) (int, int) {
	dim := os.GetMBR(children[0]).Dimension()

	bestAxis := 0
	var bestScore float64
	haveScore := false

	for axis := 0; axis < dim; axis++ {
		maxLow := os.GetMBR(children[0]).Bounds(axis).Min
		minHigh := os.GetMBR(children[0]).Bounds(axis).Max
		lowest := maxLow
		highest := minHigh

		for _, c := range children[1:] {
			b := os.GetMBR(c).Bounds(axis)
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

		length := highest - lowest
		var score float64
		if length > 0 {
			score = float64(minHigh-maxLow) / float64(length)
		}
		if !haveScore || score < bestScore {
			bestScore = score
			bestAxis = axis
			haveScore = true
		}
	}

	firstA, firstB := 0, 0
	minVal := os.GetMBR(children[0]).Bounds(bestAxis).Min
	maxVal := os.GetMBR(children[0]).Bounds(bestAxis).Max
	for i, c := range children {
		b := os.GetMBR(c).Bounds(bestAxis)
		if b.Min < minVal {
			minVal = b.Min
			firstA = i
		}
		if b.Max > maxVal {
			maxVal = b.Max
			firstB = i
		}
	}
	if firstA == firstB {
		firstB = (firstA + 1) % len(children)
	}
	return firstA, firstB
}
