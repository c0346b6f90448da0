package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"stackhand/internal/errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	stateRunning = color.New(color.FgGreen).SprintFunc()
	stateStopped = color.New(color.FgYellow).SprintFunc()
	stateUnknown = color.New(color.FgHiBlack).SprintFunc()
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// envFlag reads the optional --env flag; 0 means unset
func envFlag(cmd *cobra.Command) (*int64, error) {
	raw, _ := cmd.Flags().GetString("env")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.InvalidInput(raw, "a positive environment id")
	}
	return &id, nil
}

// colorEnabled reports whether w is a terminal that accepts colors
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f == os.Stdout && !color.NoColor
}

func runningLabel(running *bool, colorize bool) string {
	label, paint := "unknown", stateUnknown
	switch {
	case running == nil:
	case *running:
		label, paint = "running", stateRunning
	default:
		label, paint = "stopped", stateStopped
	}
	if !colorize {
		return label
	}
	return paint(label)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func fprintf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
