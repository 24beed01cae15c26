package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/queue-eta/sim"
	"github.com/inference-sim/queue-eta/sim/trace"
)

// DefaultMaxPosition caps the queue position the CLI will simulate.
const DefaultMaxPosition = 10_000_000

var (
	// CLI flags
	logLevel     string    // Log verbosity level
	serviceTimes []float64 // Per-server service time in minutes
	position     int       // 1-based queue position of the customer
	rosterPath   string    // Optional YAML roster file
	maxPosition  int       // Largest position accepted (0 = unlimited)
	traceLevel   string    // Assignment trace verbosity
	outputFormat string    // text or json
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queue-eta",
	Short: "Wait time estimator for multi-server first-come-first-served queues",
}

// setLogLevel applies the --log flag to the package-level logrus logger.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// query is a validated estimation request assembled from flags and an optional roster.
type query struct {
	servers  []sim.Server
	position int
}

// buildQuery merges the roster (if any) with flag values; flags win.
// positionSet reports whether --position was given explicitly.
func buildQuery(rosterPath string, serviceTimes []float64, position int, positionSet bool, maxPosition int) (query, error) {
	var q query
	if rosterPath != "" {
		r, err := sim.LoadRoster(rosterPath)
		if err != nil {
			return q, err
		}
		if err := r.Validate(); err != nil {
			return q, fmt.Errorf("roster %s: %w", rosterPath, err)
		}
		q.servers = r.Servers()
		q.position = r.Position
	}
	if len(serviceTimes) > 0 {
		if len(q.servers) > 0 {
			logrus.Warnf("--service-times overrides %d servers from roster %s", len(q.servers), rosterPath)
		}
		q.servers = sim.NewServers(serviceTimes...)
	}
	if positionSet || q.position == 0 {
		q.position = position
	}

	if len(q.servers) == 0 {
		return q, fmt.Errorf("no servers given; use --service-times or --roster")
	}
	for i, s := range q.servers {
		d := s.ServiceTime
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return q, fmt.Errorf("service time for %s must be a finite non-negative number, got %f", s.Label(i), d)
		}
	}
	if q.position < 1 {
		return q, fmt.Errorf("position must be a positive integer, got %d", q.position)
	}
	if maxPosition > 0 && q.position > maxPosition {
		return q, fmt.Errorf("position %d exceeds --max-position %d", q.position, maxPosition)
	}
	return q, nil
}

// estimateCmd runs a single estimation using parameters from CLI flags
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate when the customer at a queue position starts service",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, assignments", traceLevel)
		}
		if !validOutputFormats[outputFormat] {
			logrus.Fatalf("Invalid output format %q; valid: text, json", outputFormat)
		}

		q, err := buildQuery(rosterPath, serviceTimes, position, cmd.Flags().Changed("position"), maxPosition)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting estimation with %d servers, position=%d", len(q.servers), q.position)
		startTime := time.Now()

		var st *trace.AssignmentTrace
		if traceLevel != "" && traceLevel != string(trace.TraceLevelNone) {
			st = trace.NewAssignmentTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		}
		res, err := sim.EstimateResult(q.servers, q.position, st)
		if err != nil {
			logrus.Fatalf("Estimation failed: %v", err)
		}

		report := NewReport(q.servers, res, st)
		if err := report.Write(cmd.OutOrStdout(), outputFormat); err != nil {
			logrus.Fatalf("Writing report: %v", err)
		}

		logrus.Infof("Estimation complete in %s.", time.Since(startTime))
	},
}

// interactiveCmd prompts for servers and a position on stdin
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for servers and a queue position, then print the estimated wait",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if err := RunInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), maxPosition); err != nil {
			logrus.Fatalf("Interactive session ended: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().IntVar(&maxPosition, "max-position", DefaultMaxPosition, "Largest queue position accepted (0 = unlimited)")

	estimateCmd.Flags().Float64SliceVar(&serviceTimes, "service-times", nil, "Comma-separated service time per server, in minutes")
	estimateCmd.Flags().IntVar(&position, "position", 1, "1-based queue position (1 = next to be served)")
	estimateCmd.Flags().StringVar(&rosterPath, "roster", "", "YAML roster file with servers and optional position")
	estimateCmd.Flags().StringVar(&traceLevel, "trace", "none", "Assignment trace level (none, assignments)")
	estimateCmd.Flags().StringVar(&outputFormat, "output-format", "text", "Report format (text, json)")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(interactiveCmd)
}
