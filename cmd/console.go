package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	tagInfo  = color.New(color.FgCyan, color.Bold).Sprint("[+]")
	tagError = color.New(color.FgRed, color.Bold).Sprint("[!]")
)

// consoleLogger reports loop progress on the terminal. It satisfies
// orchestration.Logger; debug lines are the per-iteration role steps.
type consoleLogger struct {
	out io.Writer
}

func (c consoleLogger) Info(msg string, keysAndValues ...any) {
	fmt.Fprintf(c.out, "%s %s%s\n", tagInfo, capitalize(msg), formatKeyVals(keysAndValues))
}

func (c consoleLogger) Error(msg string, keysAndValues ...any) {
	fmt.Fprintf(c.out, "%s %s%s\n", tagError, capitalize(msg), formatKeyVals(keysAndValues))
}

func (c consoleLogger) Debug(msg string, keysAndValues ...any) {
	fmt.Fprintf(c.out, "\t%s %s%s\n", tagInfo, capitalize(msg), formatKeyVals(keysAndValues))
}

func formatKeyVals(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}
	var parts []string
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		parts = append(parts, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// promptLine asks for one line of input on the terminal.
func promptLine(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s %s: ", color.New(color.FgYellow).Sprint(">>>"), label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
