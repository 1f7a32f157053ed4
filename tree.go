package rtree

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tormol/rtree/internal/rlog"
)

// Tree is the public, concurrency-safe entry point over an ObjSpace. Every
// read operation (Search, SearchAccess, Visit, AccessObject) takes the
// space's read lock; every write operation (Insert, InsertTransaction,
// Retain, Rebuild, MarkAsRemoved, Update) takes its write lock. Mirrors
// the teacher's ShipDB, which wraps its own storage the same way with a
// single *sync.RWMutex.
type Tree[C Number, O any] struct {
	mu      sync.RWMutex
	space   *ObjSpace[C, O]
	cfg     Config
	log     sink
	metrics *metrics
}

// NewTree constructs an empty Tree from cfg. Panics on an invalid cfg, per
// NewObjSpace's preconditions.
func NewTree[C Number, O any](cfg Config) *Tree[C, O] {
	return &Tree[C, O]{
		space:   NewObjSpace[C, O](cfg.Dimension, cfg.MinRecords, cfg.MaxRecords),
		cfg:     cfg,
		log:     noopSink{},
		metrics: newMetrics("rtree"),
	}
}

// NewTreeWithData preloads records directly into the data arena via
// NewObjSpaceWithData, then immediately builds the tree structure over them
// with the static LR builder, seeded with cfg's alpha — the "auto-build on
// first wrap" behavior of wrapping a preloaded, unordered space in a tree
// façade.
func NewTreeWithData[C Number, O any](cfg Config, records []PreloadRecord[C, O]) *Tree[C, O] {
	t := &Tree[C, O]{
		space:   NewObjSpaceWithData[C, O](cfg.Dimension, cfg.MinRecords, cfg.MaxRecords, records),
		cfg:     cfg,
		log:     noopSink{},
		metrics: newMetrics("rtree"),
	}
	buildStatic(t.space, cfg.alpha(), t.log)
	t.metrics.rebuilds.Inc()
	return t
}

// WithLogger attaches l as t's trace sink and returns t for chaining.
func (t *Tree[C, O]) WithLogger(l *rlog.Logger) *Tree[C, O] {
	t.log = rlogSink{l: l}
	return t
}

// Metrics returns t's prometheus.Collector. It is never registered
// automatically; register it with your own registry if you want it
// scraped.
func (t *Tree[C, O]) Metrics() prometheus.Collector {
	return t.metrics
}

// Insert adds payload with bounding box mbr and returns its RecordId.
// Panics if mbr's dimension doesn't match the tree's.
func (t *Tree[C, O]) Insert(mbr MBR[C], payload O) RecordId {
	return t.InsertTransaction(mbr, payload, DefaultInsertHandler[C, O]{})
}

// InsertTransaction is Insert with explicit before/after hooks.
func (t *Tree[C, O]) InsertTransaction(mbr MBR[C], payload O, handler InsertHandler[C, O]) RecordId {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := insert(t.space, mbr, payload, handler, t.log)
	t.metrics.inserts.Inc()
	return id
}

// Update replaces the record named by old with a new mbr/payload pair,
// returning the new record's RecordId. old is soft-deleted first; no
// rebuild is required afterward since old's id is never reused for lookups
// once replaced. Supplemented from the teacher's RTree.Update.
func (t *Tree[C, O]) Update(old RecordId, mbr MBR[C], payload O) RecordId {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.space.markAsRemoved(old)
	id := insert(t.space, mbr, payload, DefaultInsertHandler[C, O]{}, t.log)
	t.metrics.inserts.Inc()
	return id
}

// Search returns the RecordId of every live record whose MBR intersects
// query.
func (t *Tree[C, O]) Search(query MBR[C]) []RecordId {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.metrics.searches.Inc()
	return search(t.space, RootID, query)
}

// SearchAccess calls fn once per record intersecting query, in the order
// found, stopping early if fn returns false.
func (t *Tree[C, O]) SearchAccess(query MBR[C], fn func(id RecordId, mbr MBR[C], payload O) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.metrics.searches.Inc()
	searchAccess(t.space, RootID, query, fn)
}

// Visit walks the whole tree in pre-order starting from the root.
func (t *Tree[C, O]) Visit(v Visitor[C, O]) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	visit(t.space, RootID, v)
}

// AccessObject calls fn with the MBR and payload of the single record
// named by id, while holding the read lock.
func (t *Tree[C, O]) AccessObject(id RecordId, fn func(mbr MBR[C], payload O)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d := t.space.getData(id)
	fn(d.mbr, d.payload)
}

// Retain removes every live record intersecting query for which keep
// returns false, and reports how many were removed.
func (t *Tree[C, O]) Retain(query MBR[C], keep func(mbr MBR[C], payload O) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := retain(t.space, RootID, query, keep)
	t.metrics.removed.Add(float64(n))
	return n
}

// MarkAsRemoved soft-deletes the record named by id without searching for
// it first.
func (t *Tree[C, O]) MarkAsRemoved(id RecordId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.space.markAsRemoved(id)
	t.metrics.removed.Inc()
}

// RestoreRemoved un-parks every record soft-deleted since the last
// compaction, making them live (and reachable from Search/Visit) again
// under whatever leaf still lists them.
func (t *Tree[C, O]) RestoreRemoved() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.space.RestoreRemoved()
}

// Rebuild compacts away every soft-deleted record (discarding their slab
// slots for reuse) and rebuilds the tree structure from the remaining live
// data using the LR static builder, seeded with the given alpha. Passing
// DefaultAlpha reproduces the bias cfg was constructed with by default.
func (t *Tree[C, O]) Rebuild(alpha float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.space = t.space.cloneShrunk()
	buildStatic(t.space, alpha, t.log)
	t.metrics.rebuilds.Inc()
}

// ObjSpaceGuard holds the Tree's read lock open so a caller can run a
// sequence of direct ObjSpace reads (queries Search/Visit don't expose)
// without it being released between them. Unlock must be called exactly
// once. Mirrors original_source's lock_obj_space read guard.
type ObjSpaceGuard[C Number, O any] struct {
	os     *ObjSpace[C, O]
	unlock func()
}

// ObjSpace returns the guarded space. Valid only until Unlock is called.
func (g *ObjSpaceGuard[C, O]) ObjSpace() *ObjSpace[C, O] { return g.os }

// Unlock releases the read lock taken by LockObjSpace.
func (g *ObjSpaceGuard[C, O]) Unlock() { g.unlock() }

// LockObjSpace takes t's read lock and returns a guard exposing the
// underlying ObjSpace directly, for callers that need lower-level access
// than Search/SearchAccess/Visit/AccessObject provide. The caller must call
// Unlock when done.
func (t *Tree[C, O]) LockObjSpace() *ObjSpaceGuard[C, O] {
	t.mu.RLock()
	return &ObjSpaceGuard[C, O]{os: t.space, unlock: t.mu.RUnlock}
}

// NumObjects returns the number of live records. Named after the
// teacher's NumOfBoats.
func (t *Tree[C, O]) NumObjects() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.space.DataNum()
}

// Stats summarizes the tree's current shape.
type Stats struct {
	DataCount         int
	InternalNodeCount int
	Height            int
}

// Stats computes Stats via a single Visit pass. Supplemented from the
// original implementation's debug visitor and the teacher's NumOfBoats.
func (t *Tree[C, O]) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.space.IsUnordered() {
		return Stats{DataCount: t.space.DataNum()}
	}
	sv := &statsVisitor[C, O]{}
	visit(t.space, RootID, sv)
	return Stats{
		DataCount:         sv.dataCount,
		InternalNodeCount: sv.internalCount,
		Height:            sv.maxDepth,
	}
}
