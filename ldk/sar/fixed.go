package sar

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fu"
	"github.com/sirupsen/logrus"
)

// FixedParams configures a Fixed segmenter.
type FixedParams struct {
	// SegmentSize is the maximum payload of a fragment in bits.
	SegmentSize int `yaml:"segmentSize"`

	// HeaderSize is the size of the header added to every fragment.
	HeaderSize int `yaml:"headerSize"`

	// Window is the reassembly window in SDUs.
	Window int `yaml:"window"`

	// CommandName is the key of the command. It must match on both sides.
	CommandName string `yaml:"commandName"`
}

// DefaultFixedParams returns the parameters used when none are given.
func DefaultFixedParams() FixedParams {
	return FixedParams{
		SegmentSize: 1024,
		HeaderSize:  16,
		Window:      64,
		CommandName: "sar",
	}
}

// Validate checks the parameters.
func (p FixedParams) Validate() error {
	if p.SegmentSize <= 0 {
		return fmt.Errorf("segment size %d must be positive", p.SegmentSize)
	}

	if p.HeaderSize < 0 {
		return fmt.Errorf("header size %d must not be negative", p.HeaderSize)
	}

	if p.Window <= 0 {
		return fmt.Errorf("window %d must be positive", p.Window)
	}

	if p.CommandName == "" {
		return fmt.Errorf("command name must not be empty")
	}

	return nil
}

// Fixed splits outgoing compounds into fragments of a fixed size and
// reassembles incoming fragments.
type Fixed struct {
	*fu.Delayed
	ldk.CommandSpecifier[*Command]

	params     FixedParams
	nextSDU    uint64
	outgoing   []*ldk.Compound
	reassembly *ReassemblyBuffer

	Discarded int
}

// NewFixed creates a Fixed segmenter.
func NewFixed(name string, params FixedParams) *Fixed {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	f := &Fixed{
		CommandSpecifier: ldk.MakeCommandSpecifier[*Command](
			ldk.CommandKey(params.CommandName)),
		params:     params,
		reassembly: NewReassemblyBuffer(params.Window),
	}
	f.Delayed = fu.NewDelayed(name, f, ldk.Capabilities{
		Connector: ldk.NewSingleLink(),
		Deliverer: ldk.NewSingleLink(),
		Receptor:  ldk.NewSingleLink(),
	})
	f.reassembly.OnReassembled(f.deliver)

	return f
}

// Params returns the parameters of the segmenter.
func (f *Fixed) Params() FixedParams {
	return f.params
}

// ReassemblyBuffer returns the buffer incoming fragments are collected in.
func (f *Fixed) ReassemblyBuffer() *ReassemblyBuffer {
	return f.reassembly
}

// Segment splits a compound into ceil(length/segment size) fragments. A
// compound without payload yields one empty fragment.
func (f *Fixed) Segment(c *ldk.Compound) []*ldk.Compound {
	length := c.LengthInBits()
	size := f.params.SegmentSize

	n := (length + size - 1) / size
	if n == 0 {
		n = 1
	}

	connection := ""
	if env := f.Environment(); env != nil {
		connection = env.Name()
	}

	sdu := f.nextSDU
	f.nextSDU++

	fragments := make([]*ldk.Compound, 0, n)
	for i := 0; i < n; i++ {
		offset := i * size
		fragment := c.Copy()
		fragment.SetPDU(&Segment{
			Source: c.PDU(),
			Offset: offset,
			Length: min(size, length-offset),
		})

		f.Activate(fragment, &Command{
			Connection:     connection,
			SDU:            sdu,
			FragmentNumber: i,
			Offset:         offset,
			Last:           i == n-1,
			HeaderSize:     f.params.HeaderSize,
		})

		fragments = append(fragments, fragment)
	}

	return fragments
}

// ProcessOutgoing segments the compound.
func (f *Fixed) ProcessOutgoing(c *ldk.Compound) {
	fragments := f.Segment(c)
	f.outgoing = append(f.outgoing, fragments...)

	f.Logger().WithFields(logrus.Fields{
		"compound":  c.ID(),
		"fragments": len(fragments),
	}).Trace("segmented")
}

// ProcessIncoming pushes the fragment into the reassembly buffer.
func (f *Fixed) ProcessIncoming(c *ldk.Compound) {
	cmd, err := f.Get(c)
	if err != nil {
		f.Discarded++
		f.Logger().WithError(err).Warn("incoming compound without SAR header")

		return
	}

	key := Key{Connection: cmd.Connection, SDU: cmd.SDU}

	result := f.reassembly.Push(key, cmd.FragmentNumber, cmd.Last, c)
	if result != Accepted {
		f.Discarded++
		f.Logger().WithFields(logrus.Fields{
			"sdu":      cmd.SDU,
			"fragment": cmd.FragmentNumber,
		}).Debugf("fragment discarded: %s", result)
	}
}

// Reassemble rebuilds the compound from its ordered fragments: the original
// payload with the commands that were activated above the segmenter.
func (f *Fixed) Reassemble(fragments []*ldk.Compound) *ldk.Compound {
	first := fragments[0]
	c := first.PartialCopy(f.CommandKey())

	segment, ok := first.PDU().(*Segment)
	if !ok {
		panic(fmt.Sprintf("%s: fragment %s does not carry a segment",
			f.Name(), first))
	}

	c.SetPDU(segment.Source)

	return c
}

func (f *Fixed) deliver(_ Key, fragments []*ldk.Compound) {
	c := f.Reassemble(fragments)
	f.Deliverer().GetAcceptor(c).OnData(c)
}

// HasCapacity tells if all fragments of the last compound have been sent.
func (f *Fixed) HasCapacity() bool {
	return len(f.outgoing) == 0
}

// HasSomethingToSend returns the next fragment, or nil.
func (f *Fixed) HasSomethingToSend() *ldk.Compound {
	if len(f.outgoing) == 0 {
		return nil
	}

	return f.outgoing[0]
}

// GetSomethingToSend removes and returns the next fragment.
func (f *Fixed) GetSomethingToSend() *ldk.Compound {
	c := f.outgoing[0]
	f.outgoing = f.outgoing[1:]

	return c
}
