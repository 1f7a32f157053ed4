package rtree

// ObjSpace owns the two slab arenas the tree is built from: internal nodes
// (including the root) and data records. It knows nothing about insertion
// or search order — callers graft algorithms onto it by walking RecordIds
// and calling its accessors. Grounded on original_source's ObjSpace
// (obj_space.rs); the two-arena split mirrors its `nodes`/`data_nodes`
// fields and exists so that internal-node ids and data ids never collide.
type ObjSpace[C Number, O any] struct {
	dimension  int
	minRecords int
	maxRecords int

	nodes *slab[internalNode[C]]
	data  *slab[dataNode[C, O]]

	rootID uint32
}

// NewObjSpace allocates an empty object space with a freshly made root.
// Panics if dimension < 1, minRecords < 2, or maxRecords < 2*minRecords-1 —
// these are the same bounds spec.md §6 names for tree construction.
func NewObjSpace[C Number, O any](dimension, minRecords, maxRecords int) *ObjSpace[C, O] {
	if dimension < 1 {
		fail("NewObjSpace", "dimension must be >= 1, got %d", dimension)
	}
	if minRecords < 2 {
		fail("NewObjSpace", "minRecords must be >= 2, got %d", minRecords)
	}
	if maxRecords < 2*minRecords-1 {
		fail("NewObjSpace", "maxRecords must be >= 2*minRecords-1 (got min=%d max=%d)", minRecords, maxRecords)
	}
	os := &ObjSpace[C, O]{
		dimension:  dimension,
		minRecords: minRecords,
		maxRecords: maxRecords,
		nodes:      newSlab[internalNode[C]](),
		data:       newSlab[dataNode[C, O]](),
	}
	os.rootID = os.nodes.insert(newInternalNode[C](RecordId{}))
	return os
}

// PreloadRecord is one (mbr, payload) pair handed to NewObjSpaceWithData.
type PreloadRecord[C Number, O any] struct {
	MBR     MBR[C]
	Payload O
}

// NewObjSpaceWithData allocates a space identical to NewObjSpace, then
// loads every record directly into the data arena without touching the
// tree structure at all: the root is left with no children, so
// IsUnordered reports true until a caller builds it, either by wrapping it
// in a Tree (which builds on construction) or via an explicit Rebuild.
// Mirrors original_source's obj_space_with_data.
func NewObjSpaceWithData[C Number, O any](dimension, minRecords, maxRecords int, records []PreloadRecord[C, O]) *ObjSpace[C, O] {
	os := NewObjSpace[C, O](dimension, minRecords, maxRecords)
	for _, r := range records {
		if r.MBR.Dimension() != dimension {
			fail("NewObjSpaceWithData", "record mbr has dimension %d, space has dimension %d", r.MBR.Dimension(), dimension)
		}
		os.makeDataNode(RecordId{}, r.MBR, r.Payload)
	}
	return os
}

// Dimension, MinRecords, MaxRecords expose the space's fixed configuration.
func (os *ObjSpace[C, O]) Dimension() int  { return os.dimension }
func (os *ObjSpace[C, O]) MinRecords() int { return os.minRecords }
func (os *ObjSpace[C, O]) MaxRecords() int { return os.maxRecords }

// DataNum returns the number of live data records, removed ones excluded.
func (os *ObjSpace[C, O]) DataNum() int { return os.data.len() }

// IsEmpty reports whether the space holds no live data.
func (os *ObjSpace[C, O]) IsEmpty() bool { return os.data.len() == 0 }

// IsUnordered reports whether the root currently has no children while
// data still exists underneath it — the transient state search/visit must
// refuse to walk, named directly after original_source's is_unordered.
func (os *ObjSpace[C, O]) IsUnordered() bool {
	root := os.nodes.get(os.rootID)
	return len(root.children) == 0 && os.data.len() > 0
}

// clearTreeStructure empties every internal node (root included) and every
// data node's parent link, without freeing data records themselves. Used
// as the first step of a rebuild.
func (os *ObjSpace[C, O]) clearTreeStructure() {
	fresh := newSlab[internalNode[C]]()
	os.rootID = fresh.insert(newInternalNode[C](RecordId{}))
	os.nodes = fresh
	for _, id := range os.data.ids() {
		os.data.get(id).parent = RecordId{}
	}
}

// makeNode allocates a fresh, empty internal node under parent and returns
// its RecordId. leaf selects whether children of the new node are data
// records (kindLeaf) or further internal nodes (kindInternal).
func (os *ObjSpace[C, O]) makeNode(parent RecordId, leaf bool) RecordId {
	id := os.nodes.insert(newInternalNode[C](parent))
	if leaf {
		return LeafID(id)
	}
	return InternalID(id)
}

// makeNodeWithMBR is makeNode plus an immediate MBR assignment. The static
// builder does not use it: it calls makeNode and grows the MBR through
// addChild.
func (os *ObjSpace[C, O]) makeNodeWithMBR(parent RecordId, leaf bool, mbr MBR[C]) RecordId {
	rec := os.makeNode(parent, leaf)
	os.nodes.get(rec.NodeID()).setMBR(mbr)
	return rec
}

// makeDataNode allocates a data record and returns its RecordId.
func (os *ObjSpace[C, O]) makeDataNode(parent RecordId, mbr MBR[C], payload O) RecordId {
	id := os.data.insert(dataNode[C, O]{parent: parent, mbr: mbr, payload: payload})
	return DataID(id)
}

// root returns the RecordId naming the tree's root.
func (os *ObjSpace[C, O]) root() RecordId { return RootID }

// resolveNodeID maps the Root sentinel onto the arena slot that currently
// backs it; every other RecordId already carries its own arena index.
func (os *ObjSpace[C, O]) resolveNodeID(r RecordId) uint32 {
	if r.kind == kindRoot {
		return os.rootID
	}
	return r.NodeID()
}

// getNode returns the internal node named by r. Panics if r names a data
// record — internal-node accessors never silently accept a data id.
func (os *ObjSpace[C, O]) getNode(r RecordId) *internalNode[C] {
	if r.kind == kindData {
		fail("ObjSpace.getNode", "expected an internal node, got a data id %s", r)
	}
	return os.nodes.get(os.resolveNodeID(r))
}

// getData returns the data record named by r. Panics if r does not name a
// data record.
func (os *ObjSpace[C, O]) getData(r RecordId) *dataNode[C, O] {
	if r.kind != kindData {
		fail("ObjSpace.getData", "expected a data id, got %s", r)
	}
	return os.data.get(r.NodeID())
}

// GetMBR returns the MBR currently associated with r, whether r names an
// internal node or a data record.
func (os *ObjSpace[C, O]) GetMBR(r RecordId) MBR[C] {
	if r.kind == kindData {
		return os.getData(r).mbr
	}
	return os.getNode(r).mbr
}

// GetRootMBR returns the MBR of the tree's root.
func (os *ObjSpace[C, O]) GetRootMBR() MBR[C] { return os.nodes.get(os.rootID).mbr }

// GetDataMBR returns the MBR of the data record named by id.
func (os *ObjSpace[C, O]) GetDataMBR(id RecordId) MBR[C] { return os.getData(id).mbr }

// GetDataPayload returns the payload of the data record named by id.
func (os *ObjSpace[C, O]) GetDataPayload(id RecordId) O { return os.getData(id).payload }

// setParentInfo rewrites the parent link stored on the node or data record
// named by r.
func (os *ObjSpace[C, O]) setParentInfo(r RecordId, parent RecordId) {
	if r.kind == kindData {
		os.getData(r).parent = parent
		return
	}
	os.getNode(r).parent = parent
}

// parentOf returns the parent link of r.
func (os *ObjSpace[C, O]) parentOf(r RecordId) RecordId {
	if r.kind == kindData {
		return os.getData(r).parent
	}
	return os.getNode(r).parent
}

// addChild appends child (with MBR childMBR) to the node named by r,
// growing r's MBR to also cover childMBR, and sets child's parent link to r.
func (os *ObjSpace[C, O]) addChild(r RecordId, child RecordId, childMBR MBR[C]) {
	os.getNode(r).addChild(child, childMBR)
	os.setParentInfo(child, r)
}

// markAsRemoved parks the data record named by id. Its id is not reused by
// any later insert until the space is next compacted via cloneShrunk: the
// stale leaf that still lists id among its children is left untouched,
// and callers walking it (search, visit) must skip ids that are no longer
// live rather than assume every listed child is.
func (os *ObjSpace[C, O]) markAsRemoved(id RecordId) {
	os.data.remove(id.NodeID())
}

// RestoreRemoved un-parks every data record removed since the last
// compaction, in the order they were removed. Tree structure is untouched:
// the records simply become live (and reachable from search/visit again)
// under whatever stale leaf still lists them.
func (os *ObjSpace[C, O]) RestoreRemoved() {
	os.data.restoreAll()
}

// isLive reports whether r still names a reachable record. Root and every
// internal node are always live; a data id stops being live the moment
// markAsRemoved parks it, even though it may still be listed as a child of
// its old leaf until the next compaction.
func (os *ObjSpace[C, O]) isLive(r RecordId) bool {
	if r.kind != kindData {
		return true
	}
	return os.data.has(r.NodeID())
}

// IterDataIDs returns the RecordId of every live data record.
func (os *ObjSpace[C, O]) IterDataIDs() []RecordId {
	ids := os.data.ids()
	out := make([]RecordId, len(ids))
	for i, id := range ids {
		out[i] = DataID(id)
	}
	return out
}

// cloneShrunk builds a fresh ObjSpace containing only the data currently
// live in os, with the tree structure discarded (callers must Rebuild
// afterward). This is the compaction half of spec.md §4.8: removed slots
// are never carried into the clone, so the new space's data arena is dense.
func (os *ObjSpace[C, O]) cloneShrunk() *ObjSpace[C, O] {
	freshData, _ := os.data.compact()
	fresh := &ObjSpace[C, O]{
		dimension:  os.dimension,
		minRecords: os.minRecords,
		maxRecords: os.maxRecords,
		nodes:      newSlab[internalNode[C]](),
		data:       freshData,
	}
	fresh.rootID = fresh.nodes.insert(newInternalNode[C](RecordId{}))
	return fresh
}
