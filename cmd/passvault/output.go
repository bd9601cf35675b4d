package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/org/passvault/internal/security"
)

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

func printSuccess(msg string) {
	color.Green(msg)
}

func printWarning(msg string) {
	color.Yellow(msg)
}

// newTable returns a tabwriter flushed by the caller.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// strengthLabel colors a strength level for terminal output.
func strengthLabel(l security.Level) string {
	switch l {
	case security.VeryWeak:
		return color.RedString(l.String())
	case security.Weak:
		return color.YellowString(l.String())
	case security.Fair:
		return color.CyanString(l.String())
	case security.Strong:
		return color.GreenString(l.String())
	default:
		return color.HiGreenString(l.String())
	}
}

// healthLabel colors a health score and its category.
func healthLabel(h security.Health) string {
	label := fmt.Sprintf("%d/100 (%s)", h.Score, h.Category())
	switch {
	case h.Score <= 20:
		return color.RedString(label)
	case h.Score <= 40:
		return color.YellowString(label)
	case h.Score <= 60:
		return color.CyanString(label)
	case h.Score <= 80:
		return color.GreenString(label)
	default:
		return color.HiGreenString(label)
	}
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}
