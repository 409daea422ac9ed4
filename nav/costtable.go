package nav

// CostTable maps opaque user-visible type numbers to dense, monotonically
// growing indices. Once a type number has been mapped to an index, that
// index never moves - space builders and Navigator cost lookups can both
// cache indices across rebuilds.
//
// Grounded on the area-id bookkeeping idiom of the teacher's
// recast.ErodeWalkableArea / StandardQueryFilter area-cost array, adapted
// from a fixed-size area table to a growable one since CostTable type
// numbers are arbitrary user integers, not a small closed area-id range.
type CostTable struct {
	types   []int32
	index   map[int32]int
	changed bool
}

// NewCostTable returns an empty CostTable.
func NewCostTable() *CostTable {
	return &CostTable{
		index: make(map[int32]int),
	}
}

// Count returns the number of distinct type numbers registered so far.
func (ct *CostTable) Count() int {
	return len(ct.types)
}

// TypeAt returns the user type number stored at index i.
func (ct *CostTable) TypeAt(i int) int32 {
	return ct.types[i]
}

// IndexOf returns the index of typeNumber, or def if it has not been
// registered.
func (ct *CostTable) IndexOf(typeNumber int32, def int) int {
	if i, ok := ct.index[typeNumber]; ok {
		return i
	}
	return def
}

// IndexOfOrInsert returns the index of typeNumber, registering it (and
// setting Changed) if this is the first time it's seen.
func (ct *CostTable) IndexOfOrInsert(typeNumber int32) int {
	if i, ok := ct.index[typeNumber]; ok {
		return i
	}
	i := len(ct.types)
	ct.types = append(ct.types, typeNumber)
	ct.index[typeNumber] = i
	ct.changed = true
	return i
}

// Changed reports whether a type number has been inserted since the last
// ResetChanged call.
func (ct *CostTable) Changed() bool {
	return ct.changed
}

// ResetChanged clears the Changed flag.
func (ct *CostTable) ResetChanged() {
	ct.changed = false
}

// Clear removes all registered type numbers. Existing indices handed out
// before Clear become invalid; callers must rebuild everything that used
// them. Layer never calls Clear.
func (ct *CostTable) Clear() {
	ct.types = ct.types[:0]
	for k := range ct.index {
		delete(ct.index, k)
	}
	ct.changed = false
}
