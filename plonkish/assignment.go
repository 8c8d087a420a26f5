package plonkish

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Assignment errors. They surface as a single opaque synthesis failure;
// callers never retry.
var (
	ErrCellConflict = errors.New("plonkish: cell already assigned")
	ErrSelectorRow  = errors.New("plonkish: selector already enabled on row")
	ErrSlotBound    = errors.New("plonkish: instance slot already bound")
	ErrSlotRange    = errors.New("plonkish: instance slot out of range")
	ErrStaleCell    = errors.New("plonkish: cell was not committed by this assignment")
)

type cellKey struct {
	col int
	row int
}

// AssignedCell is an opaque handle to a committed (column, row) value. It is
// produced by Region.AssignAdvice and consumed by ConstrainInstance.
type AssignedCell struct {
	col Column
	row int
	val Value
}

func (c AssignedCell) Column() Column { return c.col }
func (c AssignedCell) Row() int       { return c.row }
func (c AssignedCell) Value() Value   { return c.val }

type instanceBinding struct {
	cell AssignedCell
}

// RegionInfo describes a committed region: the row it occupies, the
// selectors enabled there, and the advice columns it wrote. Column reuse
// across regions is deliberate in this design, so the per-region view is
// kept explicit.
type RegionInfo struct {
	Name      string
	Row       int
	Selectors []Selector
	Columns   *bitset.BitSet
}

// Assignment holds the committed witness state of one synthesis: advice
// cells, selector activations and instance bindings. An Assignment is
// private to a single synthesis; concurrent proof attempts each use their
// own.
type Assignment struct {
	cs *ConstraintSystem

	cells     map[cellKey]Value
	selectors []*bitset.BitSet // enabled rows, per selector
	instance  []map[int]instanceBinding
	regions   []RegionInfo
	nbRows    int
}

func NewAssignment(cs *ConstraintSystem) *Assignment {
	a := &Assignment{
		cs:        cs,
		cells:     make(map[cellKey]Value),
		selectors: make([]*bitset.BitSet, cs.NbSelectors()),
		instance:  make([]map[int]instanceBinding, len(cs.InstanceWidths())),
	}
	for i := range a.selectors {
		a.selectors[i] = bitset.New(8)
	}
	for i := range a.instance {
		a.instance[i] = make(map[int]instanceBinding)
	}
	return a
}

func (a *Assignment) NbRows() int           { return a.nbRows }
func (a *Assignment) Regions() []RegionInfo { return a.regions }

// SelectorEnabled reports whether sel is enabled at row.
func (a *Assignment) SelectorEnabled(sel Selector, row int) bool {
	if sel.Index >= len(a.selectors) || row < 0 {
		return false
	}
	return a.selectors[sel.Index].Test(uint(row))
}

// Cell returns the committed value of (col, row).
func (a *Assignment) Cell(col Column, row int) (Value, bool) {
	v, ok := a.cells[cellKey{col: col.Index, row: row}]
	return v, ok
}

// Region is the staging area handed to an AssignRegion callback. Nothing it
// stages becomes visible until the callback returns nil; on error the whole
// region is discarded.
type Region struct {
	asg    *Assignment
	name   string
	row    int
	staged map[cellKey]Value
	sels   []Selector
	cols   *bitset.BitSet
}

// EnableSelector stages the activation of sel on the region's row.
func (r *Region) EnableSelector(sel Selector) error {
	if sel.Index >= len(r.asg.selectors) {
		return fmt.Errorf("%w: selector %d", ErrUnknownSelector, sel.Index)
	}
	if r.asg.selectors[sel.Index].Test(uint(r.row)) {
		return fmt.Errorf("%w: selector %d, row %d", ErrSelectorRow, sel.Index, r.row)
	}
	for _, s := range r.sels {
		if s == sel {
			return fmt.Errorf("%w: selector %d, row %d", ErrSelectorRow, sel.Index, r.row)
		}
	}
	r.sels = append(r.sels, sel)
	return nil
}

// AssignAdvice stages value v into col on the region's row and returns the
// handle of the future cell. name only serves error reporting.
func (r *Region) AssignAdvice(name string, col Column, v Value) (AssignedCell, error) {
	if col.Kind != Advice {
		return AssignedCell{}, fmt.Errorf("%w: %q into %v", ErrNotAdvice, name, col)
	}
	if col.Index >= r.asg.cs.NbAdviceColumns() {
		return AssignedCell{}, fmt.Errorf("%w: %q into %v", ErrUnknownColumn, name, col)
	}
	key := cellKey{col: col.Index, row: r.row}
	if _, ok := r.staged[key]; ok {
		return AssignedCell{}, fmt.Errorf("%w: %q into %v, row %d", ErrCellConflict, name, col, r.row)
	}
	if _, ok := r.asg.cells[key]; ok {
		return AssignedCell{}, fmt.Errorf("%w: %q into %v, row %d", ErrCellConflict, name, col, r.row)
	}
	r.staged[key] = v
	r.cols.Set(uint(col.Index))
	return AssignedCell{col: col, row: r.row, val: v}, nil
}

// AssignRegion runs f over a fresh single-row region placed on the next free
// row. The region's staged cells and selector activations commit atomically
// when f returns nil; any error aborts with no partial state.
func (a *Assignment) AssignRegion(name string, f func(*Region) error) error {
	r := &Region{
		asg:    a,
		name:   name,
		row:    a.nbRows,
		staged: make(map[cellKey]Value),
		cols:   bitset.New(uint(a.cs.NbAdviceColumns())),
	}
	if err := f(r); err != nil {
		return fmt.Errorf("region %q: %w", name, err)
	}
	for key, v := range r.staged {
		a.cells[key] = v
	}
	for _, sel := range r.sels {
		a.selectors[sel.Index].Set(uint(r.row))
	}
	a.regions = append(a.regions, RegionInfo{
		Name:      name,
		Row:       r.row,
		Selectors: r.sels,
		Columns:   r.cols,
	})
	a.nbRows++
	return nil
}

// ConstrainInstance binds a committed advice cell to slot row of the given
// instance column. Order of calls defines nothing: the binding is positional.
func (a *Assignment) ConstrainInstance(cell AssignedCell, col Column, row int) error {
	if col.Kind != Instance {
		return fmt.Errorf("%w: %v", ErrNotInstance, col)
	}
	if col.Index >= len(a.instance) {
		return fmt.Errorf("%w: %v", ErrUnknownColumn, col)
	}
	if row < 0 || row >= a.cs.InstanceWidths()[col.Index] {
		return fmt.Errorf("%w: %v, slot %d", ErrSlotRange, col, row)
	}
	key := cellKey{col: cell.col.Index, row: cell.row}
	committed, ok := a.cells[key]
	if !ok || committed != cell.val {
		return fmt.Errorf("%w: %v, row %d", ErrStaleCell, cell.col, cell.row)
	}
	if _, ok := a.instance[col.Index][row]; ok {
		return fmt.Errorf("%w: %v, slot %d", ErrSlotBound, col, row)
	}
	a.instance[col.Index][row] = instanceBinding{cell: cell}
	return nil
}
