package fun

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// Builder can build FUNs.
type Builder struct {
	logger    logrus.FieldLogger
	scheduler timing.EventScheduler
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		logger: logrus.StandardLogger(),
	}
}

// WithLogger sets the logger the FUN and its units write to.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithScheduler sets the scheduler units place their timers on.
func (b Builder) WithScheduler(s timing.EventScheduler) Builder {
	b.scheduler = s
	return b
}

// Build creates an empty FUN.
func (b Builder) Build(name string) *FUN {
	if name == "" {
		panic("FUN name must not be empty")
	}

	return &FUN{
		name:          name,
		logger:        b.logger.WithField("fun", name),
		scheduler:     b.scheduler,
		arena:         ldk.NewArena(),
		byName:        make(map[string]ldk.Handle),
		commandOwners: make(map[ldk.CommandKey]string),
	}
}
