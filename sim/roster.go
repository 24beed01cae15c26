package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Roster is a set of servers (and optionally a queue position) loadable from YAML.
type Roster struct {
	Version  string        `yaml:"version"`
	Position int           `yaml:"position,omitempty"` // 0 = not set
	Entries  []RosterEntry `yaml:"servers"`
}

// RosterEntry is one server in a roster file.
type RosterEntry struct {
	Name        string  `yaml:"name,omitempty"`
	ServiceTime float64 `yaml:"service_time"`
}

// LoadRoster reads and parses a YAML roster file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	var r Roster
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&r); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if r.Version == "" {
		logrus.Warnf("roster %s has no version; assuming \"1\"", path)
		r.Version = "1"
	}
	return &r, nil
}

// Validate checks that the roster describes a usable query.
func (r *Roster) Validate() error {
	if r.Version != "" && r.Version != "1" {
		return fmt.Errorf("unsupported roster version %q; valid: 1", r.Version)
	}
	if len(r.Entries) == 0 {
		return fmt.Errorf("at least one server required")
	}
	if r.Position < 0 {
		return fmt.Errorf("position must be non-negative, got %d", r.Position)
	}
	for i, e := range r.Entries {
		if math.IsNaN(e.ServiceTime) || math.IsInf(e.ServiceTime, 0) {
			return fmt.Errorf("servers[%d].service_time must be a finite number, got %f", i, e.ServiceTime)
		}
		if e.ServiceTime < 0 {
			return fmt.Errorf("servers[%d].service_time must be non-negative, got %f", i, e.ServiceTime)
		}
	}
	return nil
}

// Servers converts the roster entries to servers, naming unnamed entries
// "server_<i>" (1-based).
func (r *Roster) Servers() []Server {
	servers := make([]Server, len(r.Entries))
	for i, e := range r.Entries {
		s := Server{Name: e.Name, ServiceTime: e.ServiceTime}
		s.Name = s.Label(i)
		servers[i] = s
	}
	return servers
}
