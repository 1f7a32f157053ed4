package rtree

// internalNode is a non-leaf or leaf node of the tree: a bounding box over
// its children plus a reference back to its parent. Root is a real slab
// entry like any other node; RecordId{kind: kindRoot} is a sentinel that
// ObjSpace.resolveNodeID redirects to whichever slot ObjSpace.rootID
// currently names, so the root can be swapped out wholesale
// (clearTreeStructure) without changing the id every other RecordId that
// points at it would need to carry.
type internalNode[C Number] struct {
	parent   RecordId
	mbr      MBR[C]
	children []RecordId
}

// dataNode is a leaf-level record: the caller's MBR and opaque payload,
// plus the parent leaf it currently lives under.
type dataNode[C Number, O any] struct {
	parent  RecordId
	mbr     MBR[C]
	payload O
}

func newInternalNode[C Number](parent RecordId) internalNode[C] {
	return internalNode[C]{parent: parent, mbr: UndefinedMBR[C]()}
}

// addChild appends child to n's children and grows n's MBR to also cover
// childMBR. Mirrors add_child in the original object space: the MBR
// bookkeeping happens here so callers never forget it.
func (n *internalNode[C]) addChild(child RecordId, childMBR MBR[C]) {
	n.children = append(n.children, child)
	n.mbr = CommonMBR(n.mbr, childMBR)
}

// addChildRaw appends child without touching n's MBR. Nothing in the
// package calls it at present; a caller is responsible for calling
// recomputeMBR or setMBR before the node is read.
func (n *internalNode[C]) addChildRaw(child RecordId) {
	n.children = append(n.children, child)
}

func (n *internalNode[C]) setMBR(mbr MBR[C]) { n.mbr = mbr }

// abortChildren clears n's children and MBR in place, returning what was
// there. Used by split_node to lift the overflowing child list out of a
// node before redistributing it across the two post-split nodes.
func (n *internalNode[C]) abortChildren() []RecordId {
	children := n.children
	n.children = nil
	n.mbr = UndefinedMBR[C]()
	return children
}
