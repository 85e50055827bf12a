package console

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// splitArgs breaks a command line into words. Double quotes group words
// that contain spaces, as in: purchase c1 "Star Quest".
func splitArgs(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.TrimLeadingSpace = true

	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse command line: %w", err)
	}

	args := fields[:0]
	for _, f := range fields {
		if f != "" {
			args = append(args, f)
		}
	}
	return args, nil
}
