// Package config describes simulation scenarios in YAML: the networks, the
// units inside them, how the units are connected, and which bridges join the
// networks.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Scenario is the root of a scenario file.
type Scenario struct {
	// EndTime is the simulated time in seconds the run stops at. Zero runs
	// until no event is left.
	EndTime float64 `yaml:"endTime"`

	// Record is the path of the SQLite recording, without extension, or a
	// clickhouse:// DSN. No recording is made if it is empty.
	Record string `yaml:"record"`

	Monitor MonitorConfig     `yaml:"monitor"`
	FUNs    []FUNDescription  `yaml:"funs"`
	Bridges []BridgeEndpoints `yaml:"bridges"`
}

// MonitorConfig configures the monitoring server.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"openBrowser"`
}

// FUNDescription describes one network.
type FUNDescription struct {
	Name        string                  `yaml:"name"`
	Units       []UnitDescription       `yaml:"units"`
	Connections []ConnectionDescription `yaml:"connections"`
}

// UnitDescription describes one unit. Params is decoded by the creator of
// the unit type.
type UnitDescription struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Params yaml.Node `yaml:"params"`
}

// Connection kinds as written in scenario files.
const (
	KindConnect = "connect"
	KindDown    = "down"
	KindUp      = "up"
)

// ConnectionDescription connects an upper unit to a lower unit. Kind is one
// of connect, down or up and defaults to connect.
type ConnectionDescription struct {
	Upper string `yaml:"upper"`
	Lower string `yaml:"lower"`
	Kind  string `yaml:"kind"`
}

// BridgeEndpoints pairs two bridge units, each given as "fun/unit".
type BridgeEndpoints struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// Load reads a scenario file. Unknown keys are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	return Parse(bytes.NewReader(data))
}

// Parse reads a scenario.
func Parse(r io.Reader) (*Scenario, error) {
	var s Scenario

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	return &s, nil
}

// SplitEndpoint splits "fun/unit" into its parts.
func SplitEndpoint(endpoint string) (network, unit string, err error) {
	network, unit, found := strings.Cut(endpoint, "/")
	if !found || network == "" || unit == "" {
		return "", "", fmt.Errorf("endpoint %q is not of the form fun/unit",
			endpoint)
	}

	return network, unit, nil
}

// FUN returns the description of the named network.
func (s *Scenario) FUN(name string) (*FUNDescription, bool) {
	for i := range s.FUNs {
		if s.FUNs[i].Name == name {
			return &s.FUNs[i], true
		}
	}

	return nil, false
}

// Unit returns the description of the named unit.
func (d *FUNDescription) Unit(name string) (*UnitDescription, bool) {
	for i := range d.Units {
		if d.Units[i].Name == name {
			return &d.Units[i], true
		}
	}

	return nil, false
}

// Validate reports every structural problem of the scenario. Unit types and
// parameters are checked when the units are created.
func (s *Scenario) Validate() error {
	var err error

	if s.EndTime < 0 {
		err = multierr.Append(err,
			fmt.Errorf("end time %g must not be negative", s.EndTime))
	}

	if s.Monitor.Port < 0 || s.Monitor.Port > 65535 {
		err = multierr.Append(err,
			fmt.Errorf("monitor port %d is out of range", s.Monitor.Port))
	}

	if len(s.FUNs) == 0 {
		err = multierr.Append(err, fmt.Errorf("scenario has no FUN"))
	}

	names := make(map[string]bool)

	for i := range s.FUNs {
		d := &s.FUNs[i]

		if names[d.Name] {
			err = multierr.Append(err, fmt.Errorf("duplicate FUN %q", d.Name))
		}

		names[d.Name] = true
		err = multierr.Append(err, d.Validate())
	}

	for _, b := range s.Bridges {
		err = multierr.Append(err, s.validateBridge(b))
	}

	return err
}

func (s *Scenario) validateBridge(b BridgeEndpoints) error {
	var err error

	for _, endpoint := range []string{b.A, b.B} {
		network, unit, splitErr := SplitEndpoint(endpoint)
		if splitErr != nil {
			err = multierr.Append(err, splitErr)
			continue
		}

		d, found := s.FUN(network)
		if !found {
			err = multierr.Append(err,
				fmt.Errorf("bridge endpoint %s: unknown FUN", endpoint))
			continue
		}

		if _, found := d.Unit(unit); !found {
			err = multierr.Append(err,
				fmt.Errorf("bridge endpoint %s: unknown unit", endpoint))
		}
	}

	if b.A == b.B {
		err = multierr.Append(err,
			fmt.Errorf("bridge %s cannot be paired with itself", b.A))
	}

	return err
}

// Validate reports the structural problems of one network.
func (d *FUNDescription) Validate() error {
	var err error

	if d.Name == "" {
		err = multierr.Append(err, fmt.Errorf("FUN without name"))
	}

	if strings.Contains(d.Name, "/") {
		err = multierr.Append(err,
			fmt.Errorf("FUN name %q must not contain /", d.Name))
	}

	units := make(map[string]bool)

	for _, u := range d.Units {
		if u.Name == "" {
			err = multierr.Append(err,
				fmt.Errorf("%s: unit without name", d.Name))
		}

		if u.Type == "" {
			err = multierr.Append(err,
				fmt.Errorf("%s: unit %q without type", d.Name, u.Name))
		}

		if units[u.Name] {
			err = multierr.Append(err,
				fmt.Errorf("%s: duplicate unit %q", d.Name, u.Name))
		}

		units[u.Name] = true
	}

	for _, c := range d.Connections {
		if !units[c.Upper] {
			err = multierr.Append(err,
				fmt.Errorf("%s: connection from unknown unit %q", d.Name, c.Upper))
		}

		if !units[c.Lower] {
			err = multierr.Append(err,
				fmt.Errorf("%s: connection to unknown unit %q", d.Name, c.Lower))
		}

		switch c.Kind {
		case "", KindConnect, KindDown, KindUp:
		default:
			err = multierr.Append(err,
				fmt.Errorf("%s: unknown connection kind %q", d.Name, c.Kind))
		}
	}

	return err
}
