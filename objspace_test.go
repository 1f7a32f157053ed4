package rtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlabDefersReuseUntilCompaction(t *testing.T) {
	s := newSlab[int]()
	a := s.insert(1)
	b := s.insert(2)
	s.remove(a)
	c := s.insert(3)
	assert.NotEqual(t, a, c, "a removed slot must not be handed back out by insert before a compaction")
	assert.True(t, s.has(b))
	assert.False(t, s.has(a))
	assert.Panics(t, func() { s.get(a) })

	compacted, remap := s.compact()
	assert.Equal(t, 2, compacted.len())
	_, stillThere := remap[a]
	assert.False(t, stillThere, "a parked id is dropped, not reused, by compact")
}

func TestSlabRestoreAllUnparksRemovedIDs(t *testing.T) {
	s := newSlab[int]()
	a := s.insert(1)
	s.remove(a)
	require.False(t, s.has(a))
	s.restoreAll()
	assert.True(t, s.has(a))
	assert.Equal(t, 1, *s.get(a))
}

func TestSlabGetPanicsOnFreedID(t *testing.T) {
	s := newSlab[int]()
	id := s.insert(1)
	s.remove(id)
	assert.Panics(t, func() { s.get(id) })
}

func TestSlabCompactDensifies(t *testing.T) {
	s := newSlab[int]()
	a := s.insert(10)
	b := s.insert(20)
	_ = a
	s.remove(a)
	c := s.insert(30)
	_ = c

	compacted, remap := s.compact()
	assert.Equal(t, 2, compacted.len())
	newB, ok := remap[b]
	require.True(t, ok)
	assert.Equal(t, 20, *compacted.get(newB))
}

func TestObjSpaceStartsEmptyWithUndefinedRoot(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	assert.True(t, os.IsEmpty())
	assert.True(t, os.GetRootMBR().IsUndefined())
	assert.False(t, os.IsUnordered())
}

func TestIsUnorderedDetectsOrphanedData(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	os.makeDataNode(RecordId{}, rect(0, 1, 0, 1), "x")
	assert.True(t, os.IsUnordered())
}

func TestMarkAsRemovedFreesSlot(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	id := os.makeDataNode(RecordId{}, rect(0, 1, 0, 1), "x")
	require.Equal(t, 1, os.DataNum())
	os.markAsRemoved(id)
	assert.Equal(t, 0, os.DataNum())
	assert.Panics(t, func() { os.GetDataMBR(id) })
}

func TestCloneShrunkDropsRemovedData(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	a := os.makeDataNode(RecordId{}, rect(0, 1, 0, 1), "a")
	os.makeDataNode(RecordId{}, rect(5, 6, 5, 6), "b")
	os.markAsRemoved(a)

	shrunk := os.cloneShrunk()
	assert.Equal(t, 1, shrunk.DataNum())
}

func TestAddChildGrowsParentMBR(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	os.addChild(RootID, os.makeDataNode(RecordId{}, rect(0, 1, 0, 1), "a"), rect(0, 1, 0, 1))
	os.addChild(RootID, os.makeDataNode(RecordId{}, rect(9, 10, 9, 10), "b"), rect(9, 10, 9, 10))

	root := os.GetRootMBR()
	assert.Equal(t, Bounds[float64]{Min: 0, Max: 10}, root.Bounds(0))
}

func TestGetNodeRejectsDataID(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	id := os.makeDataNode(RecordId{}, rect(0, 1, 0, 1), "a")
	assert.Panics(t, func() { os.getNode(id) })
}

func TestGetDataRejectsNodeID(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	assert.Panics(t, func() { os.getData(RootID) })
}
