package rtree

import "github.com/samber/lo"

// Visitor receives a depth-first, pre-order walk of a tree: EnterNode and
// LeaveNode bracket each internal node's subtree, VisitData is called once
// per data record reached. Returning false from EnterNode or VisitData
// stops the walk early without visiting the remainder. Grounded on original_source's
// Visitor trait.
type Visitor[C Number, O any] interface {
	EnterNode(id RecordId, mbr MBR[C]) bool
	LeaveNode(id RecordId, mbr MBR[C])
	VisitData(id RecordId, mbr MBR[C], payload O) bool
}

// visit walks the subtree rooted at node in pre-order, calling v's methods.
// It refuses to walk a root that is unordered (see ObjSpace.IsUnordered):
// that state only exists transiently mid-rebuild and visiting it would
// show a caller a tree with data but no paths to it.
func visit[C Number, O any](os *ObjSpace[C, O], node RecordId, v Visitor[C, O]) {
	if node.IsRoot() && os.IsUnordered() {
		fail("Visit", "root is unordered: data exists but has no children")
	}
	visitHelper(os, node, v)
}

func visitHelper[C Number, O any](os *ObjSpace[C, O], node RecordId, v Visitor[C, O]) bool {
	if node.kind == kindData {
		if !os.isLive(node) {
			return true
		}
		d := os.getData(node)
		return v.VisitData(node, d.mbr, d.payload)
	}
	n := os.getNode(node)
	if !v.EnterNode(node, n.mbr) {
		return false
	}
	cont := true
	for _, child := range n.children {
		if !visitHelper(os, child, v) {
			cont = false
			break
		}
	}
	v.LeaveNode(node, n.mbr)
	return cont
}

// search returns the RecordId of every live data record whose MBR
// intersects query, descending only into subtrees whose own MBR
// intersects query. Mirrors original_source's search_helper.
func search[C Number, O any](os *ObjSpace[C, O], node RecordId, query MBR[C]) []RecordId {
	if node.IsRoot() && os.IsUnordered() {
		fail("Search", "root is unordered: data exists but has no children")
	}
	var out []RecordId
	searchHelper(os, node, query, &out)
	return out
}

func searchHelper[C Number, O any](os *ObjSpace[C, O], node RecordId, query MBR[C], out *[]RecordId) {
	if node.kind == kindData {
		if !os.isLive(node) {
			return
		}
		if Intersects(os.getData(node).mbr, query) {
			*out = append(*out, node)
		}
		return
	}
	n := os.getNode(node)
	if !n.mbr.IsUndefined() && !Intersects(n.mbr, query) {
		return
	}
	matching := lo.Filter(n.children, func(child RecordId, _ int) bool {
		return os.isLive(child) && Intersects(os.GetMBR(child), query)
	})
	for _, child := range matching {
		searchHelper(os, child, query, out)
	}
}

// searchAccess runs search and invokes fn once per hit with the record's
// MBR and payload, in the order search found them. fn's return value
// controls whether the walk continues to later hits.
func searchAccess[C Number, O any](os *ObjSpace[C, O], node RecordId, query MBR[C], fn func(id RecordId, mbr MBR[C], payload O) bool) {
	ids := search(os, node, query)
	for _, id := range ids {
		d := os.getData(id)
		if !fn(id, d.mbr, d.payload) {
			return
		}
	}
}

// retain removes every live data record intersecting query for which keep
// returns false, and reports how many were removed. Matching is computed
// up front via search so that mutation never happens while the tree is
// being walked.
func retain[C Number, O any](os *ObjSpace[C, O], node RecordId, query MBR[C], keep func(mbr MBR[C], payload O) bool) int {
	ids := search(os, node, query)
	removed := 0
	for _, id := range ids {
		d := os.getData(id)
		if !keep(d.mbr, d.payload) {
			os.markAsRemoved(id)
			removed++
		}
	}
	return removed
}

// statsVisitor implements Visitor to compute Stats() in a single pass.
type statsVisitor[C Number, O any] struct {
	dataCount     int
	internalCount int
	depth         int
	maxDepth      int
}

func (s *statsVisitor[C, O]) EnterNode(RecordId, MBR[C]) bool {
	s.internalCount++
	s.depth++
	if s.depth > s.maxDepth {
		s.maxDepth = s.depth
	}
	return true
}

func (s *statsVisitor[C, O]) LeaveNode(RecordId, MBR[C]) { s.depth-- }

func (s *statsVisitor[C, O]) VisitData(RecordId, MBR[C], O) bool {
	s.dataCount++
	return true
}
