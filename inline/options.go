package inline

import (
	"bufio"
	"io"
	"strings"

	"github.com/samber/lo"
)

// Options configures line output.
type Options struct {
	Out io.Writer
	// Json replaces the per-item lines with a single report document.
	Json bool
}

// ParseTitles reads one title per line. Blank lines and lines starting with # are skipped.
func ParseTitles(r io.Reader) ([]string, error) {
	var titles []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return titles, nil
}

// CleanTitles trims arguments and drops empty ones.
func CleanTitles(args []string) []string {
	return lo.Compact(lo.Map(args, func(arg string, _ int) string {
		return strings.TrimSpace(arg)
	}))
}
