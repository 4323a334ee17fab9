package main

// Broad-phase spatial hash. Unlike a per-tick rebuild grid, records persist
// across ticks and are moved incrementally, so mostly-stationary entities
// cost nothing. Cell size is a fixed tuning knob: too small and large
// entities span many cells, too large and queries return too many false
// candidates. ~2x the typical entity radius works well.

const (
	// Grid coordinates are shifted into [0, 2^21) before packing, which
	// bounds the world to +/- 2^20 cells per axis.
	cellCoordOffset = 1 << 20
	cellCoordBits   = 21
)

// cellKey packs shifted 2D grid coordinates into a single map key
func cellKey(cx, cy int) int64 {
	return int64(cx+cellCoordOffset)<<cellCoordBits | int64(cy+cellCoordOffset)
}

// spatialRecord tracks one entity's current placement in the grid.
// keys always mirrors the cells computed from (x, y, radius).
type spatialRecord struct {
	x, y   float64
	radius float64
	layer  uint32
	keys   []int64
}

// SpatialIndex maps grid cells to the entity ids overlapping them.
// Emptied cell containers are recycled through a pool instead of freed.
// Not safe for concurrent use: query scratch and result buffers are shared.
type SpatialIndex struct {
	cellSize float64
	cells    map[int64][]int
	records  map[int]*spatialRecord

	cellPool [][]int
	recPool  []*spatialRecord

	scratch   map[int]struct{} // query dedup
	resultBuf []int            // reused across queries; callers copy to retain
	keyBuf    []int64          // update cell-set staging
}

// NewSpatialIndex creates an index with the given cell size
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &SpatialIndex{
		cellSize: cellSize,
		cells:    make(map[int64][]int),
		records:  make(map[int]*spatialRecord),
		scratch:  make(map[int]struct{}),
	}
}

// cellRange returns the grid coordinate range covering [x-r, x+r] x [y-r, y+r]
func (s *SpatialIndex) cellRange(x, y, r float64) (minCX, minCY, maxCX, maxCY int) {
	minCX = floorCell(x-r, s.cellSize)
	maxCX = floorCell(x+r, s.cellSize)
	minCY = floorCell(y-r, s.cellSize)
	maxCY = floorCell(y+r, s.cellSize)
	return
}

// Insert adds an entity to every cell covered by its bounding square.
// A prior record for the same id is overwritten.
func (s *SpatialIndex) Insert(id int, x, y, radius float64, layer uint32) {
	if _, ok := s.records[id]; ok {
		s.Remove(id)
	}

	rec := s.getRecord()
	rec.x, rec.y, rec.radius, rec.layer = x, y, radius, layer

	minCX, minCY, maxCX, maxCY := s.cellRange(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			key := cellKey(cx, cy)
			s.addToCell(key, id)
			rec.keys = append(rec.keys, key)
		}
	}
	s.records[id] = rec
}

// Update moves an entity to its new position. Unknown ids insert. When the
// covered cell set is unchanged only the scalar fields mutate (no cell churn).
func (s *SpatialIndex) Update(id int, x, y, radius float64, layer uint32) {
	rec, ok := s.records[id]
	if !ok {
		s.Insert(id, x, y, radius, layer)
		return
	}

	minCX, minCY, maxCX, maxCY := s.cellRange(x, y, radius)
	s.keyBuf = s.keyBuf[:0]
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			s.keyBuf = append(s.keyBuf, cellKey(cx, cy))
		}
	}

	if sameKeys(rec.keys, s.keyBuf) {
		rec.x, rec.y, rec.radius, rec.layer = x, y, radius, layer
		return
	}

	// Leave vacated cells, enter newly covered ones
	for _, key := range rec.keys {
		if !containsKey(s.keyBuf, key) {
			s.removeFromCell(key, id)
		}
	}
	for _, key := range s.keyBuf {
		if !containsKey(rec.keys, key) {
			s.addToCell(key, id)
		}
	}

	rec.keys = append(rec.keys[:0], s.keyBuf...)
	rec.x, rec.y, rec.radius, rec.layer = x, y, radius, layer
}

// Remove deletes an entity from the index
func (s *SpatialIndex) Remove(id int) {
	rec, ok := s.records[id]
	if !ok {
		return
	}
	for _, key := range rec.keys {
		s.removeFromCell(key, id)
	}
	delete(s.records, id)
	s.putRecord(rec)
}

// QueryRadius returns ids of entities whose bounding circle overlaps the
// given circle. The result slice is reused by the next query; copy to retain.
func (s *SpatialIndex) QueryRadius(x, y, r float64) []int {
	return s.QueryRadiusWithLayer(x, y, r, ^uint32(0))
}

// QueryRadiusWithLayer is QueryRadius restricted to entities whose layer
// intersects the given mask
func (s *SpatialIndex) QueryRadiusWithLayer(x, y, r float64, mask uint32) []int {
	s.resultBuf = s.resultBuf[:0]
	clear(s.scratch)

	minCX, minCY, maxCX, maxCY := s.cellRange(x, y, r)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			for _, id := range s.cells[cellKey(cx, cy)] {
				if _, seen := s.scratch[id]; seen {
					continue
				}
				s.scratch[id] = struct{}{}
				rec := s.records[id]
				if rec.layer&mask == 0 {
					continue
				}
				dx := rec.x - x
				dy := rec.y - y
				reach := r + rec.radius
				if dx*dx+dy*dy <= reach*reach {
					s.resultBuf = append(s.resultBuf, id)
				}
			}
		}
	}
	return s.resultBuf
}

// QueryRect returns ids of entities whose bounding circle overlaps the given
// axis-aligned rect (centered at x, y). Result buffer reused; copy to retain.
func (s *SpatialIndex) QueryRect(x, y, w, h float64) []int {
	s.resultBuf = s.resultBuf[:0]
	clear(s.scratch)

	hw, hh := w/2, h/2
	r := hw
	if hh > r {
		r = hh
	}
	minCX, minCY, maxCX, maxCY := s.cellRange(x, y, r)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			for _, id := range s.cells[cellKey(cx, cy)] {
				if _, seen := s.scratch[id]; seen {
					continue
				}
				s.scratch[id] = struct{}{}
				rec := s.records[id]
				// test against the closest point on the rect
				px := Clamp(rec.x, x-hw, x+hw)
				py := Clamp(rec.y, y-hh, y+hh)
				dx := rec.x - px
				dy := rec.y - py
				if dx*dx+dy*dy <= rec.radius*rec.radius {
					s.resultBuf = append(s.resultBuf, id)
				}
			}
		}
	}
	return s.resultBuf
}

// EntityCount returns the number of tracked entities
func (s *SpatialIndex) EntityCount() int {
	return len(s.records)
}

// CellCount returns the number of live (non-empty) cells
func (s *SpatialIndex) CellCount() int {
	return len(s.cells)
}

func (s *SpatialIndex) addToCell(key int64, id int) {
	cell, ok := s.cells[key]
	if !ok {
		if n := len(s.cellPool); n > 0 {
			cell = s.cellPool[n-1][:0]
			s.cellPool = s.cellPool[:n-1]
		}
	}
	s.cells[key] = append(cell, id)
}

func (s *SpatialIndex) removeFromCell(key int64, id int) {
	cell := s.cells[key]
	for i, v := range cell {
		if v == id {
			cell[i] = cell[len(cell)-1]
			cell = cell[:len(cell)-1]
			break
		}
	}
	if len(cell) == 0 {
		delete(s.cells, key)
		if cap(cell) > 0 {
			s.cellPool = append(s.cellPool, cell)
		}
		return
	}
	s.cells[key] = cell
}

func (s *SpatialIndex) getRecord() *spatialRecord {
	if n := len(s.recPool); n > 0 {
		rec := s.recPool[n-1]
		s.recPool = s.recPool[:n-1]
		return rec
	}
	return &spatialRecord{}
}

func (s *SpatialIndex) putRecord(rec *spatialRecord) {
	rec.keys = rec.keys[:0]
	s.recPool = append(s.recPool, rec)
}

func sameKeys(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsKey(keys []int64, key int64) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
