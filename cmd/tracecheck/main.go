// Command tracecheck validates a Catapult trace file and prints a
// short summary: event counts per phase and any unbalanced manual
// span begin/end pairs.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

type traceEvent struct {
	Ph   string          `json:"ph"`
	Name string          `json:"name"`
	ID   json.RawMessage `json:"id"`
}

func main() {
	input := pflag.StringP("input", "i", "trace.json", "trace file to check")
	quiet := pflag.BoolP("quiet", "q", false, "only report problems")
	pflag.Parse()

	if err := run(*input, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "tracecheck: %s\n", err)
		os.Exit(1)
	}
}

func run(path string, quiet bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var events []traceEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return errors.Wrap(err, "not a JSON array of event objects")
	}

	phases := make(map[string]int)
	open := make(map[string]int) // manual spans keyed by id/name
	for _, ev := range events {
		phases[ev.Ph]++
		switch ev.Ph {
		case "b", "B":
			open[manualKey(ev)]++
		case "e", "E":
			open[manualKey(ev)]--
		}
	}

	if !quiet {
		names := make([]string, 0, len(phases))
		for ph := range phases {
			names = append(names, ph)
		}
		sort.Strings(names)
		fmt.Printf("%s: %d events\n", path, len(events))
		for _, ph := range names {
			fmt.Printf("  ph %-2q %d\n", ph, phases[ph])
		}
	}

	bad := 0
	for key, n := range open {
		if n != 0 {
			bad++
			fmt.Fprintf(os.Stderr, "unbalanced manual span %s: %+d\n", key, n)
		}
	}
	if bad > 0 {
		return errors.Errorf("%d unbalanced manual span(s)", bad)
	}
	return nil
}

func manualKey(ev traceEvent) string {
	return string(ev.ID) + "/" + ev.Name
}
