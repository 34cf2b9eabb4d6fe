// Package crc provides a checksum unit. The chance that a compound arrives
// corrupted is read from another unit, usually the one that models the
// channel.
package crc

import (
	"fmt"
	"math/rand/v2"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sirupsen/logrus"
)

// An ErrorRateProvider tells how likely a compound is to be corrupted.
type ErrorRateProvider interface {
	ErrorRate(c *ldk.Compound) float64
}

// Command is the checksum of a compound. CheckOK is set by the receiving
// side.
type Command struct {
	CheckOK bool
	Size    int
}

// Clone returns a copy of the command.
func (c *Command) Clone() ldk.Command {
	cp := *c
	return &cp
}

// SizeInBits returns the checksum length.
func (c *Command) SizeInBits() int {
	return c.Size
}

// Params configures a CRC unit.
type Params struct {
	// Size is the checksum length in bits.
	Size int `yaml:"size"`

	// ErrorRateProvider names the unit the error rate is read from.
	ErrorRateProvider string `yaml:"errorRateProvider"`

	// Dropping drops corrupted compounds. Otherwise they are delivered with
	// CheckOK unset.
	Dropping bool `yaml:"dropping"`

	CommandName string `yaml:"commandName"`
	Seed        uint64 `yaml:"seed"`
}

// DefaultParams returns the parameters used when none are given.
func DefaultParams() Params {
	return Params{
		Size:              16,
		ErrorRateProvider: "phy",
		Dropping:          true,
		CommandName:       "crc",
	}
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.Size < 0 {
		return fmt.Errorf("checksum size %d must not be negative", p.Size)
	}

	if p.ErrorRateProvider == "" {
		return fmt.Errorf("error rate provider must be named")
	}

	if p.CommandName == "" {
		return fmt.Errorf("command name must not be empty")
	}

	return nil
}

// CRC adds a checksum to outgoing compounds and checks it on incoming ones.
type CRC struct {
	*ldk.FunctionalUnitBase
	ldk.CommandSpecifier[*Command]

	params   Params
	provider ErrorRateProvider
	rng      *rand.Rand

	Passed int
	Failed int
}

// New creates a CRC unit.
func New(name string, params Params) *CRC {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	c := &CRC{
		CommandSpecifier: ldk.MakeCommandSpecifier[*Command](
			ldk.CommandKey(params.CommandName)),
		params: params,
		rng:    rand.New(rand.NewPCG(params.Seed, 0)),
	}
	c.FunctionalUnitBase = ldk.NewFunctionalUnitBase(name, c,
		ldk.Capabilities{
			Connector: ldk.NewSingleLink(),
			Deliverer: ldk.NewSingleLink(),
			Receptor:  ldk.NewSingleLink(),
		})

	return c
}

// Params returns the parameters of the unit.
func (c *CRC) Params() Params {
	return c.params
}

// OnFUNCreated looks up the error rate provider.
func (c *CRC) OnFUNCreated() {
	provider, err := ldk.FindFriend[ErrorRateProvider](
		c.Environment(), c.params.ErrorRateProvider)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", c.Name(), err))
	}

	c.provider = provider
}

// DoIsAccepting asks the unit below with the checksum already added.
func (c *CRC) DoIsAccepting(compound *ldk.Compound) bool {
	cp := compound.Copy()
	c.Activate(cp, &Command{Size: c.params.Size})

	return c.Connector().HasAcceptor(cp)
}

// DoSendData adds the checksum and sends the compound down.
func (c *CRC) DoSendData(compound *ldk.Compound) {
	c.Activate(compound, &Command{Size: c.params.Size})
	c.Connector().GetAcceptor(compound).SendData(compound)
}

// DoOnData checks the compound. A corrupted compound is dropped or marked.
func (c *CRC) DoOnData(compound *ldk.Compound) {
	if c.provider == nil {
		panic(fmt.Sprintf("%s: no error rate provider, OnFUNCreated not called",
			c.Name()))
	}

	cmd := c.MustGet(compound)
	rate := c.provider.ErrorRate(compound)

	if c.rng.Float64() < rate {
		c.Failed++
		cmd.CheckOK = false

		logger := c.Logger().WithFields(logrus.Fields{
			"compound":   compound.ID(),
			"error_rate": rate,
		})

		if c.params.Dropping {
			logger.Debug("checksum failed, compound dropped")
			return
		}

		logger.Debug("checksum failed, compound marked")
	} else {
		c.Passed++
		cmd.CheckOK = true
	}

	if c.Deliverer().Size() > 0 {
		c.Deliverer().GetAcceptor(compound).OnData(compound)
	}
}

// DoWakeup passes the wakeup on.
func (c *CRC) DoWakeup() {
	c.Receptor().Wakeup()
}
