package adapter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/youtube-analyzer-go/pkg/errors"
)

var controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// DashboardOptions is what a caller may choose when requesting a report.
type DashboardOptions struct {
	IncludeChannel bool
	Format         OutputFormat
}

// ParseDashboardOptions reads the raw channel flag and output format. Empty values
// fall back to no channel insight and text output.
func ParseDashboardOptions(channel, format string) (DashboardOptions, error) {
	opts := DashboardOptions{Format: FormatText}

	if channel = strings.TrimSpace(channel); channel != "" {
		include, err := strconv.ParseBool(channel)
		if err != nil {
			return opts, errors.NewValidationError("channel must be a boolean", "channel", channel)
		}
		opts.IncludeChannel = include
	}

	switch OutputFormat(strings.ToLower(strings.TrimSpace(format))) {
	case "", FormatText:
		opts.Format = FormatText
	case FormatJSON:
		opts.Format = FormatJSON
	default:
		return opts, errors.NewValidationError("format must be text or json", "format", format)
	}

	return opts, nil
}

// SanitizeInput strips control characters and surrounding whitespace from a field
// typed by the user.
func SanitizeInput(s string) string {
	return strings.TrimSpace(controlCharsPattern.ReplaceAllString(s, ""))
}
