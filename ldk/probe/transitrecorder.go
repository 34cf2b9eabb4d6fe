package probe

import (
	"github.com/sarchlab/funsim/datarecording"
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/hooking"
	"github.com/sarchlab/funsim/sim/timing"
)

// TransitEntry is one row of the transit table.
type TransitEntry struct {
	Time      float64
	FUN       string
	FU        string
	Position  string
	Compound  string
	Birthmark string
	Bits      int
	TotalBits int
}

// TransitTable is the default name of the transit table.
const TransitTable = "transit"

// A TransitRecorder writes a row for every compound that enters a unit.
// Wakeups carry no compound and are not recorded.
type TransitRecorder struct {
	recorder datarecording.DataRecorder
	table    string
	clock    timing.TimeTeller
}

// NewTransitRecorder creates the table and returns a hook that fills it.
// The clock may be nil, in which case all rows have time zero.
func NewTransitRecorder(
	recorder datarecording.DataRecorder,
	table string,
	clock timing.TimeTeller,
) *TransitRecorder {
	recorder.CreateTable(table, TransitEntry{})

	return &TransitRecorder{
		recorder: recorder,
		table:    table,
		clock:    clock,
	}
}

// Func records the transit.
func (r *TransitRecorder) Func(ctx hooking.HookCtx) {
	c, ok := ctx.Item.(*ldk.Compound)
	if !ok || c == nil {
		return
	}

	network, unit := site(ctx)

	entry := TransitEntry{
		FUN:       network,
		FU:        unit,
		Position:  ctx.Pos.Name,
		Compound:  c.ID(),
		Birthmark: c.Birthmark(),
		Bits:      c.LengthInBits(),
		TotalBits: c.TotalLengthInBits(),
	}

	if r.clock != nil {
		entry.Time = float64(r.clock.Now())
	}

	r.recorder.InsertData(r.table, entry)
}
