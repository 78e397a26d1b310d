package wizard

import (
	"fmt"
	"strconv"
)

const (
	// OutputRecursive prints matches, then recurses down to their members
	// and nodes.
	OutputRecursive = "recursive"

	FormatJSON = "json"
	FormatXML  = "xml"
)

// Comment controls the annotations in a generated query. Text, when set,
// replaces the default header; annotations are emitted whenever Enabled is
// true or Text is non-empty.
type Comment struct {
	Enabled bool
	Text    string
}

// On reports whether annotations should be emitted.
func (c Comment) On() bool {
	return c.Enabled || c.Text != ""
}

// Options configures query generation.
type Options struct {
	Comment Comment
	// OutputMode is "recursive" or any mode accepted after "out", such as
	// "geom", "ids" or "center". It is emitted verbatim.
	OutputMode   string
	GlobalBbox   bool
	Timeout      int
	MaxSize      *int64
	OutputFormat string
	AroundRadius float64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Comment:      Comment{Enabled: true},
		OutputMode:   OutputRecursive,
		GlobalBbox:   false,
		Timeout:      25,
		OutputFormat: FormatJSON,
		AroundRadius: 1000,
	}
}

// Validate checks that the options can produce a query.
func (o Options) Validate() error {
	switch o.OutputFormat {
	case FormatJSON, FormatXML:
	default:
		return fmt.Errorf("invalid output format %q (expected json or xml)", o.OutputFormat)
	}
	if o.OutputMode == "" {
		return fmt.Errorf("output mode must not be empty")
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", o.Timeout)
	}
	if o.MaxSize != nil && *o.MaxSize < 0 {
		return fmt.Errorf("maxsize must not be negative, got %d", *o.MaxSize)
	}
	if o.AroundRadius < 0 {
		return fmt.Errorf("around radius must not be negative, got %s", formatRadius(o.AroundRadius))
	}
	return nil
}

func formatRadius(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
