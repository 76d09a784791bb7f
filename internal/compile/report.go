package compile

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	doneLine          = "✅ Done"
	failureSummaryKey = "🛑 Failed to compile the following %d contract(s):"
)

func init() {
	err := message.Set(language.English, failureSummaryKey,
		plural.Selectf(1, "%d",
			plural.One, "🛑 Failed to compile the following %[1]d contract:",
			plural.Other, "🛑 Failed to compile the following %[1]d contracts:",
		))
	if err != nil {
		panic(fmt.Sprintf("compile: register summary message: %v", err))
	}
}

var printer = message.NewPrinter(language.English)

// Result pairs a contract with the exit code of its compiler process.
type Result struct {
	Artifact string
	ExitCode int
	Duration time.Duration
}

// Success reports a zero exit code.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Report aggregates the results of one run.
type Report struct {
	RunID     string
	Results   []Result
	Failed    []string // failed contracts, in input order
	StartedAt time.Time
	Duration  time.Duration
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	if !res.Success() {
		r.Failed = append(r.Failed, res.Artifact)
	}
}

// Failures returns the number of contracts that failed to compile.
func (r *Report) Failures() int { return len(r.Failed) }

// Succeeded reports whether every contract compiled.
func (r *Report) Succeeded() bool { return len(r.Failed) == 0 }

// Summary returns the terminal report line.
func (r *Report) Summary() string {
	if r.Succeeded() {
		return doneLine
	}
	return printer.Sprintf(failureSummaryKey, r.Failures())
}

// Write prints the summary followed by one indented line per failed contract.
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintln(w, r.Summary()); err != nil {
		return err
	}
	for _, artifact := range r.Failed {
		if _, err := fmt.Fprintf(w, "   %s\n", artifact); err != nil {
			return err
		}
	}
	return nil
}
