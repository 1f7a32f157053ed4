package rtree

import "fmt"

// nodeID is a stable index into one of the two slab arenas backing an
// ObjSpace. It is never reused while the id it names is still live.
type nodeID uint32

// RecordId names any location reachable from an ObjSpace: the implicit
// root, an internal node, or a data node. It is the Go counterpart of the
// tagged RecordId enum in the original implementation, expressed as a small
// tagged struct rather than an interface so that RecordId stays comparable
// and cheap to pass by value.
type RecordId struct {
	kind recordKind
	id   nodeID
}

type recordKind uint8

const (
	kindRoot recordKind = iota
	kindInternal
	kindLeaf
	kindData
)

// RootID is the single well-known record naming the tree's root node.
var RootID = RecordId{kind: kindRoot}

// InternalID names an internal (non-leaf) node by its arena index.
func InternalID(id uint32) RecordId { return RecordId{kind: kindInternal, id: nodeID(id)} }

// LeafID names a leaf node (an internal node whose children are data
// records) by its arena index.
func LeafID(id uint32) RecordId { return RecordId{kind: kindLeaf, id: nodeID(id)} }

// DataID names a data record by its arena index.
func DataID(id uint32) RecordId { return RecordId{kind: kindData, id: nodeID(id)} }

// IsRoot reports whether r names the root.
func (r RecordId) IsRoot() bool { return r.kind == kindRoot }

// IsData reports whether r names a data record.
func (r RecordId) IsData() bool { return r.kind == kindData }

// IsLeaf reports whether r names a leaf node.
func (r RecordId) IsLeaf() bool { return r.kind == kindLeaf }

// IsInternal reports whether r names a non-root internal node (leaf or not).
func (r RecordId) IsInternal() bool { return r.kind == kindInternal || r.kind == kindLeaf }

// NodeID returns the arena index r refers to. Panics for RootID, which has
// no arena slot of its own — asking for one is a precondition violation.
func (r RecordId) NodeID() uint32 {
	if r.kind == kindRoot {
		fail("RecordId.NodeID", "Root has no node id")
	}
	return uint32(r.id)
}

// asSibling returns the RecordId that should be used for a node created as
// a sibling of r during a split: same kind, different arena slot.
func (r RecordId) asSibling(id uint32) RecordId {
	return RecordId{kind: r.kind, id: nodeID(id)}
}

func (r RecordId) String() string {
	switch r.kind {
	case kindRoot:
		return "Root"
	case kindInternal:
		return fmt.Sprintf("Internal(%d)", r.id)
	case kindLeaf:
		return fmt.Sprintf("Leaf(%d)", r.id)
	case kindData:
		return fmt.Sprintf("Data(%d)", r.id)
	default:
		return "RecordId(?)"
	}
}
