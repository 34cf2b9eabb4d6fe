package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvLogLevel    = "FUNSIM_LOG_LEVEL"
	EnvRecord      = "FUNSIM_RECORD"
	EnvMonitorPort = "FUNSIM_MONITOR_PORT"
)

// Env holds the settings taken from the environment.
type Env struct {
	LogLevel    string
	Record      string
	MonitorPort int
}

// LoadEnv loads the given .env files into the environment and reads the
// funsim variables. Without files, .env in the working directory is loaded
// if it exists. Variables already set in the environment win.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}

	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Env{}, fmt.Errorf("loading env files: %w", err)
		}
	}

	env := Env{
		LogLevel: os.Getenv(EnvLogLevel),
		Record:   os.Getenv(EnvRecord),
	}

	if port := os.Getenv(EnvMonitorPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return Env{}, fmt.Errorf("%s must be a port number: %w",
				EnvMonitorPort, err)
		}

		env.MonitorPort = p
	}

	return env, nil
}

// ApplyEnv lets the environment override the recording path and enable the
// monitor.
func (s *Scenario) ApplyEnv(env Env) {
	if env.Record != "" {
		s.Record = env.Record
	}

	if env.MonitorPort != 0 {
		s.Monitor.Enabled = true
		s.Monitor.Port = env.MonitorPort
	}
}
