package sim

import (
	"fmt"
	"math"
)

// Server is one service point with a fixed, deterministic service time.
// Servers are values; the estimator never mutates them.
type Server struct {
	Name        string  // display name (optional)
	ServiceTime float64 // minutes per customer, >= 0
}

// NewServer creates an unnamed server with the given service time in minutes.
func NewServer(serviceTime float64) Server {
	return Server{ServiceTime: serviceTime}
}

// NewServers creates one unnamed server per service time, preserving order.
func NewServers(serviceTimes ...float64) []Server {
	servers := make([]Server, len(serviceTimes))
	for i, d := range serviceTimes {
		servers[i] = NewServer(d)
	}
	return servers
}

// Label returns the server's name, or "server_<i>" (1-based) when unnamed.
func (s Server) Label(idx int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("server_%d", idx+1)
}

// validServiceTime reports whether d is a finite, non-negative duration.
func validServiceTime(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}
