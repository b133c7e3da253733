package command

import (
	"fmt"
	"os"

	"bookhub/cmd/cli/command/client"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
	headColor = color.New(color.FgCyan, color.Bold)
)

func printOK(format string, a ...any) {
	okColor.Printf("✓ "+format+"\n", a...)
}

func printError(err error) {
	switch {
	case client.IsCapacityExceeded(err):
		warnColor.Fprintln(os.Stderr, "✗ Your shelf is full. Remove a book or upgrade to premium.")
	case client.IsUnauthorized(err):
		errColor.Fprintln(os.Stderr, "✗ Not authorized:", err)
		dimColor.Fprintln(os.Stderr, "  Run `bookhub auth login` to start a new session.")
	default:
		errColor.Fprintln(os.Stderr, "✗", err)
	}
}

func stars(rating float64) string {
	return fmt.Sprintf("%.1f★", rating)
}
