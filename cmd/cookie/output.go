package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mmcdole/cookie/internal/domain"
	"gopkg.in/yaml.v3"
)

// Output formats for listing commands
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// render writes data in the requested format; text output is produced by
// the table callback
func render(w io.Writer, format string, data any, table func(tw *tabwriter.Writer)) error {
	switch strings.ToLower(format) {
	case "", formatText:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: output format %q (want text, json or yaml)", domain.ErrInvalidInput, format)
	}
}

// parseID parses a positive numeric id argument
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidInput, what, s)
	}
	return id, nil
}
