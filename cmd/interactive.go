package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	sim "github.com/inference-sim/queue-eta/sim"
)

// prompter reads validated numbers line by line, re-prompting until the
// answer parses and meets its minimum.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// readLine prints the prompt and returns the next trimmed line.
// End of input is reported as a wrapped io.EOF.
func (p *prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", errors.Wrap(err, "reading input")
		}
		return "", errors.Wrapf(io.EOF, "no answer to %q", strings.TrimSpace(prompt))
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *prompter) readInt(prompt string, minValue int) (int, error) {
	for {
		line, err := p.readLine(prompt)
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(p.out, "Please enter a valid integer.")
			continue
		}
		if value < minValue {
			fmt.Fprintf(p.out, "Please enter an integer >= %d.\n", minValue)
			continue
		}
		return value, nil
	}
}

func (p *prompter) readFloat(prompt string, minValue float64) (float64, error) {
	for {
		line, err := p.readLine(prompt)
		if err != nil {
			return 0, err
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			fmt.Fprintln(p.out, "Please enter a valid number.")
			continue
		}
		if value < minValue {
			fmt.Fprintf(p.out, "Please enter a number >= %v.\n", minValue)
			continue
		}
		return value, nil
	}
}

// RunInteractive walks the user through entering servers and a queue
// position, then prints the estimated wait to two decimals.
// maxPosition caps the accepted position (0 = unlimited).
func RunInteractive(in io.Reader, out io.Writer, maxPosition int) error {
	p := newPrompter(in, out)

	fmt.Fprintln(out, "=== Queue Wait Time Calculator ===")
	fmt.Fprintln(out, "Assumptions: all servers are idle at t=0, no server preference, deterministic average times.")
	fmt.Fprintln(out)

	count, err := p.readInt("Number of servers: ", 1)
	if err != nil {
		return err
	}
	var servers []sim.Server
	for i := 1; i <= count; i++ {
		d, err := p.readFloat(fmt.Sprintf("Average service time for Server #%d (minutes): ", i), 0)
		if err != nil {
			return err
		}
		servers = append(servers, sim.NewServer(d))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "NOTE: Position in queue is 1-based (1 means the next person to be served).")
	for {
		pos, err := p.readInt("Enter YOUR position in the queue: ", 1)
		if err != nil {
			return err
		}
		if maxPosition > 0 && pos > maxPosition {
			fmt.Fprintf(out, "Please enter an integer <= %d.\n", maxPosition)
			continue
		}

		eta, err := sim.Estimate(servers, pos)
		var inputErr *sim.InvalidInputError
		if errors.As(err, &inputErr) {
			fmt.Fprintf(out, "Cannot estimate: %s. Please try again.\n", inputErr.Reason)
			continue
		}
		if err != nil {
			return errors.Wrap(err, "estimating wait time")
		}

		fmt.Fprintf(out, "\nEstimated waiting time until you START: %.2f minutes\n", eta)
		return nil
	}
}
