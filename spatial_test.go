package main

import "testing"

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestSpatialIndexInsertAndQuery(t *testing.T) {
	idx := NewSpatialIndex(64)

	idx.Insert(1, 100, 100, 10, LayerShip)

	results := idx.QueryRadius(100, 100, 50)
	if !containsID(results, 1) {
		t.Error("expected to find entity at (100,100)")
	}

	results = idx.QueryRadius(3000, 3000, 50)
	if containsID(results, 1) {
		t.Error("should not find entity at (3000,3000)")
	}
}

func TestSpatialIndexRemove(t *testing.T) {
	idx := NewSpatialIndex(64)

	idx.Insert(1, 500, 500, 10, LayerShip)
	idx.Insert(2, 510, 500, 10, LayerShip)
	idx.Remove(1)

	results := idx.QueryRadius(500, 500, 100)
	if containsID(results, 1) {
		t.Error("removed entity still returned by query")
	}
	if !containsID(results, 2) {
		t.Error("unrelated entity lost after remove")
	}

	idx.Remove(2)
	if idx.EntityCount() != 0 {
		t.Errorf("expected 0 entities, got %d", idx.EntityCount())
	}
	if idx.CellCount() != 0 {
		t.Errorf("expected 0 live cells, got %d", idx.CellCount())
	}

	// Removing an unknown id is a no-op
	idx.Remove(99)
}

func TestSpatialIndexCellSpan(t *testing.T) {
	idx := NewSpatialIndex(64)

	// Entity straddling the origin corner covers 4 cells
	idx.Insert(1, 5, 5, 10, LayerShip)
	if idx.CellCount() != 4 {
		t.Errorf("expected 4 cells for corner-straddling entity, got %d", idx.CellCount())
	}

	// Must be found exactly once despite living in 4 cells
	results := idx.QueryRadius(5, 5, 100)
	count := 0
	for _, id := range results {
		if id == 1 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected entity once in results, got %d times", count)
	}
}

func TestSpatialIndexUpdateMove(t *testing.T) {
	idx := NewSpatialIndex(64)

	idx.Insert(1, 100, 100, 10, LayerShip)
	idx.Update(1, 900, 900, 10, LayerShip)

	if containsID(idx.QueryRadius(100, 100, 50), 1) {
		t.Error("entity still found at old position after update")
	}
	if !containsID(idx.QueryRadius(900, 900, 50), 1) {
		t.Error("entity not found at new position after update")
	}

	// Small move within the same cell set keeps the entity queryable
	idx.Update(1, 905, 903, 10, LayerShip)
	if !containsID(idx.QueryRadius(905, 903, 50), 1) {
		t.Error("entity lost after same-cell update")
	}
	if idx.EntityCount() != 1 {
		t.Errorf("expected 1 entity, got %d", idx.EntityCount())
	}
}

func TestSpatialIndexUpdateUnknownInserts(t *testing.T) {
	idx := NewSpatialIndex(64)

	idx.Update(7, 200, 200, 15, LayerAsteroid)
	if !containsID(idx.QueryRadius(200, 200, 20), 7) {
		t.Error("update of unknown id should insert")
	}
}

func TestSpatialIndexQueryEdge(t *testing.T) {
	idx := NewSpatialIndex(64)

	// Radius-40 entity: a tight query near its edge must still find it
	idx.Insert(1, 160, 160, 40, LayerAsteroid)
	if !containsID(idx.QueryRadius(120, 120, 5), 1) {
		t.Error("expected to find circle entity near its edge")
	}

	// Query clearly beyond the combined radii must not
	if containsID(idx.QueryRadius(160, 280, 5), 1) {
		t.Error("query outside combined radius returned false positive")
	}
}

func TestSpatialIndexNegativeCoords(t *testing.T) {
	idx := NewSpatialIndex(64)

	idx.Insert(1, -100, -100, 10, LayerShip)
	if !containsID(idx.QueryRadius(-100, -100, 20), 1) {
		t.Error("expected to find entity at negative coords")
	}
	if containsID(idx.QueryRadius(100, 100, 20), 1) {
		t.Error("entity at negative coords found at mirrored position")
	}
}

func TestSpatialIndexLayerQuery(t *testing.T) {
	idx := NewSpatialIndex(64)

	idx.Insert(1, 100, 100, 10, LayerShip)
	idx.Insert(2, 110, 100, 10, LayerAsteroid)

	ships := idx.QueryRadiusWithLayer(100, 100, 50, LayerShip)
	if !containsID(ships, 1) || containsID(ships, 2) {
		t.Errorf("layer query returned wrong set: %v", ships)
	}

	both := idx.QueryRadiusWithLayer(100, 100, 50, LayerShip|LayerAsteroid)
	if !containsID(both, 1) || !containsID(both, 2) {
		t.Errorf("combined mask query returned wrong set: %v", both)
	}
}

func TestSpatialIndexQueryRect(t *testing.T) {
	idx := NewSpatialIndex(64)

	idx.Insert(1, 100, 100, 10, LayerShip)
	idx.Insert(2, 400, 400, 10, LayerShip)

	results := idx.QueryRect(100, 100, 60, 60)
	if !containsID(results, 1) {
		t.Error("rect query missed entity inside")
	}
	if containsID(results, 2) {
		t.Error("rect query returned entity far outside")
	}

	// Circle overlapping only the rect edge still counts
	results = idx.QueryRect(135, 100, 60, 60)
	if !containsID(results, 1) {
		t.Error("rect query missed entity overlapping edge")
	}
}

func TestSpatialIndexCellReuse(t *testing.T) {
	idx := NewSpatialIndex(64)

	for i := 0; i < 50; i++ {
		idx.Insert(i, float64(i*100), float64(i*100), 10, LayerShip)
	}
	for i := 0; i < 50; i++ {
		idx.Remove(i)
	}
	if idx.CellCount() != 0 {
		t.Errorf("expected 0 cells after removing everything, got %d", idx.CellCount())
	}

	// Index stays usable after heavy churn through the pools
	idx.Insert(1, 50, 50, 10, LayerShip)
	if !containsID(idx.QueryRadius(50, 50, 20), 1) {
		t.Error("index unusable after pool churn")
	}
}
