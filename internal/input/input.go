// Package input expands command arguments that refer to files or stdin.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrStdinReused is returned when "-" appears more than once.
var ErrStdinReused = errors.New("stdin can only be read once")

// ReadLinesFromReader returns the trimmed lines of r. Blank lines and lines
// starting with # are skipped.
func ReadLinesFromReader(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ExpandArgs replaces "@path" with the lines of the file at path and "-"
// with the lines read from stdin. Other values pass through unchanged.
func ExpandArgs(values []string, stdin io.Reader) ([]string, error) {
	var result []string
	stdinUsed := false

	for _, v := range values {
		switch {
		case v == "-":
			if stdinUsed {
				return nil, ErrStdinReused
			}
			stdinUsed = true
			result = append(result, ReadLinesFromReader(stdin)...)

		case strings.HasPrefix(v, "@") && len(v) > 1:
			f, err := os.Open(v[1:])
			if err != nil {
				return nil, fmt.Errorf("read steps: %w", err)
			}
			result = append(result, ReadLinesFromReader(f)...)
			f.Close()

		default:
			result = append(result, v)
		}
	}
	return result, nil
}
