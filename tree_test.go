package rtree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() *Tree[float64, string] {
	return NewTree[float64, string](Config{Dimension: 2, MinRecords: 2, MaxRecords: 4})
}

func TestEmptyTreeSearchReturnsNothing(t *testing.T) {
	tr := newTestTree()
	hits := tr.Search(rect(0, 100, 0, 100))
	assert.Empty(t, hits)
	assert.Equal(t, 0, tr.NumObjects())
}

func TestSingleInsertRootMBRAndSearch(t *testing.T) {
	tr := newTestTree()
	box := rect(1, 2, 1, 2)
	id := tr.Insert(box, "alpha")

	require.Equal(t, 1, tr.NumObjects())
	assert.Equal(t, box, tr.space.GetRootMBR())

	hits := tr.Search(rect(0, 10, 0, 10))
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0])

	assert.Empty(t, tr.Search(rect(50, 60, 50, 60)))
}

func TestTwoInsertsGrowCommonMBR(t *testing.T) {
	tr := newTestTree()
	tr.Insert(rect(0, 1, 0, 1), "a")
	tr.Insert(rect(9, 10, 9, 10), "b")

	root := tr.space.GetRootMBR()
	assert.Equal(t, Bounds[float64]{Min: 0, Max: 10}, root.Bounds(0))
	assert.Equal(t, Bounds[float64]{Min: 0, Max: 10}, root.Bounds(1))

	hits := tr.Search(rect(8, 11, 8, 11))
	require.Len(t, hits, 1)
}

func TestSixTileGridSearch(t *testing.T) {
	tr := newTestTree()
	ids := make(map[string]RecordId)
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			name := fmt.Sprintf("tile-%d-%d", row, col)
			box := rect(float64(col*10), float64(col*10+10), float64(row*10), float64(row*10+10))
			ids[name] = tr.Insert(box, name)
		}
	}
	require.Equal(t, 6, tr.NumObjects())

	hits := tr.Search(rect(5, 15, 5, 15))
	names := map[string]bool{}
	tr.SearchAccess(rect(5, 15, 5, 15), func(_ RecordId, _ MBR[float64], payload string) bool {
		names[payload] = true
		return true
	})
	assert.Len(t, hits, len(names))
	assert.True(t, names["tile-0-0"])
	assert.True(t, names["tile-0-1"])
}

func TestChooseSubtreeBreaksTiesByVolume(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	a := os.makeNode(RootID, false)
	os.nodes.get(a.NodeID()).setMBR(rect(0, 10, 0, 10))
	os.getNode(RootID).addChild(a, rect(0, 10, 0, 10))

	b := os.makeNode(RootID, false)
	os.nodes.get(b.NodeID()).setMBR(rect(0, 10, 0, 5))
	os.getNode(RootID).addChild(b, rect(0, 10, 0, 5))

	// Both a and b would grow by the same amount (zero: the query point
	// already lies within both), so the tiebreak falls to whichever
	// subtree has the smaller existing volume — b.
	chosen := selectNode(os, RootID, rect(5, 5, 2, 2), noopSink{})
	assert.Equal(t, b, chosen)
}

func TestStaticBuildOverRandomData(t *testing.T) {
	tr := NewTree[float64, int](Config{Dimension: 2, MinRecords: 4, MaxRecords: 10})
	const n = 200
	boxes := make([]MBR[float64], n)
	x := 1.0
	for i := 0; i < n; i++ {
		x = mix(x)
		y := mix(x + float64(i))
		boxes[i] = rect(x, x+1, y, y+1)
		tr.Insert(boxes[i], i)
	}
	tr.Rebuild(DefaultAlpha)

	require.Equal(t, n, tr.NumObjects())
	st := tr.Stats()
	assert.Equal(t, n, st.DataCount)
	assert.Greater(t, st.Height, 0)

	full := tr.Search(rect(-1e9, 1e9, -1e9, 1e9))
	assert.Len(t, full, n)

	for i, box := range boxes {
		hits := tr.Search(box)
		found := false
		tr.SearchAccess(box, func(_ RecordId, _ MBR[float64], payload int) bool {
			if payload == i {
				found = true
			}
			return true
		})
		assert.NotEmpty(t, hits)
		assert.True(t, found)
	}
}

// mix is a cheap deterministic pseudo-random spreader, used instead of
// math/rand so the static-build soak test above needs no seeding and stays
// reproducible across runs.
func mix(x float64) float64 {
	x = x*1.0000001 + 0.618033988749
	frac := x - float64(int64(x))
	return frac * 1000
}

func TestRetainAndCompactionFourOfSix(t *testing.T) {
	tr := newTestTree()
	var ids []RecordId
	for i := 0; i < 6; i++ {
		box := rect(float64(i), float64(i)+1, float64(i), float64(i)+1)
		ids = append(ids, tr.Insert(box, fmt.Sprintf("r%d", i)))
	}
	require.Equal(t, 6, tr.NumObjects())

	removed := tr.Retain(rect(-1000, 1000, -1000, 1000), func(_ MBR[float64], payload string) bool {
		return payload != "r1" && payload != "r4"
	})
	assert.Equal(t, 2, removed)
	assert.Equal(t, 4, tr.NumObjects())

	tr.Rebuild(DefaultAlpha)
	assert.Equal(t, 4, tr.NumObjects())

	var remaining []string
	tr.SearchAccess(rect(-1000, 1000, -1000, 1000), func(_ RecordId, _ MBR[float64], payload string) bool {
		remaining = append(remaining, payload)
		return true
	})
	assert.ElementsMatch(t, []string{"r0", "r2", "r3", "r5"}, remaining)
}

func TestUpdateReplacesRecord(t *testing.T) {
	tr := newTestTree()
	id := tr.Insert(rect(0, 1, 0, 1), "before")
	newID := tr.Update(id, rect(50, 51, 50, 51), "after")

	assert.Empty(t, tr.Search(rect(0, 1, 0, 1)))
	hits := tr.Search(rect(50, 51, 50, 51))
	require.Len(t, hits, 1)
	assert.Equal(t, newID, hits[0])
}

func TestVisitStopsEarly(t *testing.T) {
	tr := NewTree[float64, int](Config{Dimension: 2, MinRecords: 2, MaxRecords: 4})
	for i := 0; i < 5; i++ {
		tr.Insert(rect(float64(i), float64(i)+1, 0, 1), i)
	}
	visited := 0
	tr.Visit(&countingVisitor[float64, int]{onData: func(int) bool {
		visited++
		return visited < 2
	}})
	assert.Equal(t, 2, visited)
}

type countingVisitor[C Number, O any] struct {
	onData func(O) bool
}

func (countingVisitor[C, O]) EnterNode(RecordId, MBR[C]) bool { return true }
func (countingVisitor[C, O]) LeaveNode(RecordId, MBR[C])      {}
func (v *countingVisitor[C, O]) VisitData(_ RecordId, _ MBR[C], payload O) bool {
	return v.onData(payload)
}

func TestInsertWrongDimensionPanics(t *testing.T) {
	tr := newTestTree()
	bad := NewMBR(Bounds[float64]{Min: 0, Max: 1})
	assert.Panics(t, func() { tr.Insert(bad, "x") })
}

func TestNewObjSpaceRejectsInvalidConfig(t *testing.T) {
	assert.Panics(t, func() { NewObjSpace[float64, string](0, 2, 4) })
	assert.Panics(t, func() { NewObjSpace[float64, string](2, 1, 4) })
	assert.Panics(t, func() { NewObjSpace[float64, string](2, 4, 4) })
}

func TestRootIDPanicsOnNodeID(t *testing.T) {
	assert.Panics(t, func() { RootID.NodeID() })
}

func TestDataIDRejectedByNodeAccessors(t *testing.T) {
	tr := newTestTree()
	id := tr.Insert(rect(0, 1, 0, 1), "x")
	assert.Panics(t, func() { tr.space.getNode(id) })
}

func TestMarkAsRemovedDefersIDReuseAndIsFilteredFromSearch(t *testing.T) {
	tr := newTestTree()
	stale := tr.Insert(rect(0, 1, 0, 1), "stale")
	kept := tr.Insert(rect(9, 10, 9, 10), "kept")
	tr.MarkAsRemoved(stale)

	fresh := tr.Insert(rect(20, 21, 20, 21), "fresh")
	assert.NotEqual(t, stale, fresh, "a soft-removed id must not be handed back out before a rebuild compacts it away")

	hits := tr.Search(rect(-1000, 1000, -1000, 1000))
	assert.ElementsMatch(t, []RecordId{kept, fresh}, hits, "search must descend past the stale leaf without surfacing the removed record")

	tr.RestoreRemoved()
	hits = tr.Search(rect(-1000, 1000, -1000, 1000))
	assert.ElementsMatch(t, []RecordId{stale, kept, fresh}, hits, "RestoreRemoved un-parks every pending removal")
}

func TestLockObjSpaceExposesUnderlyingSpace(t *testing.T) {
	tr := newTestTree()
	id := tr.Insert(rect(0, 1, 0, 1), "x")

	guard := tr.LockObjSpace()
	defer guard.Unlock()
	assert.Equal(t, 1, guard.ObjSpace().DataNum())
	assert.Equal(t, "x", guard.ObjSpace().GetDataPayload(id))
}

func TestNewObjSpaceWithDataStartsUnordered(t *testing.T) {
	os := NewObjSpaceWithData[float64, string](2, 2, 4, []PreloadRecord[float64, string]{
		{MBR: rect(0, 1, 0, 1), Payload: "a"},
		{MBR: rect(5, 6, 5, 6), Payload: "b"},
	})
	assert.Equal(t, 2, os.DataNum())
	assert.True(t, os.IsUnordered())
}

func TestNewTreeWithDataAutoBuilds(t *testing.T) {
	tr := NewTreeWithData[float64, string](DefaultConfig2D(), []PreloadRecord[float64, string]{
		{MBR: rect(0, 1, 0, 1), Payload: "a"},
		{MBR: rect(5, 6, 5, 6), Payload: "b"},
	})
	require.Equal(t, 2, tr.NumObjects())
	hits := tr.Search(rect(-100, 100, -100, 100))
	assert.Len(t, hits, 2)
}

func TestSelectFirstPairPicksMostSeparatedAxis(t *testing.T) {
	os := NewObjSpace[float64, string](2, 2, 4)
	mk := func(b0, b1 Bounds[float64]) RecordId {
		id := os.makeNode(RootID, false)
		os.nodes.get(id.NodeID()).setMBR(NewMBR(b0, b1))
		return id
	}
	// Axis 0 separates the three children cleanly; axis 1 has them heavily
	// overlapping. The smallest-score axis (axis 0, per original_source's
	// min_by) must be the one selected, not the largest-score one.
	children := []RecordId{
		mk(Bounds[float64]{Min: 0, Max: 1}, Bounds[float64]{Min: 1, Max: 11}),
		mk(Bounds[float64]{Min: 5, Max: 6}, Bounds[float64]{Min: 0, Max: 10}),
		mk(Bounds[float64]{Min: 10, Max: 11}, Bounds[float64]{Min: 2, Max: 12}),
	}

	a, b := selectFirstPair(os, children)
	assert.ElementsMatch(t, []int{0, 2}, []int{a, b})
}
