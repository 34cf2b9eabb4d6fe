package simulation

import (
	"fmt"

	"github.com/sarchlab/funsim/config"
	"github.com/sarchlab/funsim/datarecording"
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/probe"
	"github.com/sarchlab/funsim/ldk/tools"
	"github.com/sarchlab/funsim/monitoring"
	"github.com/sarchlab/funsim/sim/id"
	"github.com/sarchlab/funsim/sim/timing"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Builder can be used to build a simulation.
type Builder struct {
	logger         logrus.FieldLogger
	registry       *fun.Registry
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	outputFileName string
	recordOn       bool
	parallelIDs    bool
}

// MakeBuilder creates a new builder. Monitoring and recording are off by
// default.
func MakeBuilder() Builder {
	return Builder{
		logger: logrus.StandardLogger(),
	}
}

// WithLogger sets the logger of the simulation and its networks.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithRegistry sets the registry unit types are resolved with. The default
// registry knows all unit types of this module.
func (b Builder) WithRegistry(r *fun.Registry) Builder {
	b.registry = r
	return b
}

// WithMonitoring starts a monitoring server for the simulation.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	b.monitorPort = 0
	b.openBrowser = false

	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOpenBrowser opens the monitoring page once the server is up.
func (b Builder) WithOpenBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithOutputFileName records every transit into the given SQLite file, with
// the .sqlite3 extension added. A clickhouse:// DSN records into ClickHouse
// instead.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.recordOn = true
	b.outputFileName = filename

	return b
}

// WithParallelIDs makes compounds and events carry globally unique IDs
// instead of sequential ones. It must be set before any ID is generated.
func (b Builder) WithParallelIDs() Builder {
	b.parallelIDs = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		panic("monitor options cannot be set when monitoring is disabled")
	}
}

// Build builds a simulation without any network.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	if b.parallelIDs {
		id.UseParallelIDGenerator()
	}

	s := &Simulation{
		id:       id.Get().Generate(),
		logger:   b.logger,
		engine:   timing.NewSerialEngine(),
		counter:  probe.NewCounter(),
		registry: b.registry,
		funIndex: make(map[string]int),
	}

	if s.registry == nil {
		s.registry = DefaultRegistry()
	}

	if b.recordOn {
		s.dataRecorder = b.newRecorder()
		s.transitRecorder = probe.NewTransitRecorder(
			s.dataRecorder, probe.TransitTable, s.engine)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterCounter(s.counter)
		s.monitor.StartServer(b.openBrowser)
	}

	return s
}

func (b Builder) newRecorder() datarecording.DataRecorder {
	if !datarecording.IsClickHouseDSN(b.outputFileName) {
		return datarecording.New(b.outputFileName)
	}

	recorder, err := datarecording.NewClickHouse(b.outputFileName)
	if err != nil {
		panic(err)
	}

	return recorder
}

// BuildScenario builds the simulation described by a scenario. Recording
// and monitoring options of the scenario are added to the ones of the
// builder.
func (b Builder) BuildScenario(sc *config.Scenario) (*Simulation, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	if sc.Record != "" {
		b = b.WithOutputFileName(sc.Record)
	}

	if sc.Monitor.Enabled {
		b = b.WithMonitoring().WithMonitorPort(sc.Monitor.Port)
		if sc.Monitor.OpenBrowser {
			b = b.WithOpenBrowser()
		}
	}

	s := b.Build()
	s.endTime = timing.VTimeInSec(sc.EndTime)

	for i := range sc.FUNs {
		d := &sc.FUNs[i]

		network, err := config.BuildFUN(d, s.registry, s.funBuilder())
		if err != nil {
			s.Terminate()
			return nil, err
		}

		s.registerFUN(network)
	}

	if err := s.pairBridges(sc.Bridges); err != nil {
		s.Terminate()
		return nil, err
	}

	if err := s.Validate(); err != nil {
		s.Terminate()
		return nil, err
	}

	return s, nil
}

func (s *Simulation) pairBridges(bridges []config.BridgeEndpoints) error {
	var err error

	for _, endpoints := range bridges {
		a, errA := s.bridge(endpoints.A)
		b, errB := s.bridge(endpoints.B)

		if errA != nil || errB != nil {
			err = multierr.Combine(err, errA, errB)
			continue
		}

		tools.Pair(a, b)

		s.logger.WithFields(logrus.Fields{
			"a": endpoints.A,
			"b": endpoints.B,
		}).Debug("bridges paired")
	}

	return err
}

func (s *Simulation) bridge(endpoint string) (*tools.Bridge, error) {
	network, unit, err := config.SplitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	f, found := s.FUN(network)
	if !found {
		return nil, fmt.Errorf("bridge endpoint %s: unknown FUN", endpoint)
	}

	return ldk.FindFriend[*tools.Bridge](f, unit)
}
