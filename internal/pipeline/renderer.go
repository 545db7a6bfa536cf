package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ppiankov/claimroute/internal/model"
)

// StdoutPath writes rendered output to standard output
const StdoutPath = "-"

// Renderer writes results as JSON or Markdown
type Renderer struct {
	pretty        bool
	includeFooter bool
	stdout        io.Writer
}

// NewRenderer creates a renderer from output settings
func NewRenderer(cfg model.OutputConfig) *Renderer {
	return &Renderer{
		pretty:        cfg.Pretty,
		includeFooter: cfg.IncludeFooter,
		stdout:        os.Stdout,
	}
}

// WithStdout redirects "-" output, for tests
func (r *Renderer) WithStdout(w io.Writer) *Renderer {
	r.stdout = w
	return r
}

// WriteJSON encodes v to w
func (r *Renderer) WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if r.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// RenderJSON writes v to path, or to stdout when path is "-"
func (r *Renderer) RenderJSON(v any, path string) error {
	return r.write(path, func(w io.Writer) error { return r.WriteJSON(w, v) })
}

// RenderMarkdown writes the Markdown report to path, or to stdout when path is "-"
func (r *Renderer) RenderMarkdown(result *model.Result, path string) error {
	return r.write(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(result))
		return err
	})
}

func (r *Renderer) write(path string, fn func(io.Writer) error) error {
	if path == "" || path == StdoutPath {
		return fn(r.stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Markdown renders a result as a static report
func (r *Renderer) Markdown(result *model.Result) string {
	var b strings.Builder

	b.WriteString("# Claim Routing Report\n\n")
	fmt.Fprintf(&b, "**Recommended route:** %s\n\n", result.RecommendedRoute)
	fmt.Fprintf(&b, "**Reasoning:** %s\n\n", result.Reasoning)

	b.WriteString("## Extracted Fields\n\n")
	if len(result.ExtractedFields) == 0 {
		b.WriteString("_No fields extracted._\n\n")
	} else {
		b.WriteString("| Field | Value |\n|---|---|\n")
		for _, name := range orderedKeys(result.ExtractedFields) {
			fmt.Fprintf(&b, "| %s | %s |\n", name, cell(result.ExtractedFields[name]))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Missing Fields\n\n")
	if len(result.MissingFields) == 0 {
		b.WriteString("None\n\n")
	} else {
		for _, f := range result.MissingFields {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	md := result.Metadata
	b.WriteString("## Flags\n\n")
	if md.FraudIndicators {
		fmt.Fprintf(&b, "- Fraud indicators: %s\n", strings.Join(md.FraudKeywordsFound, ", "))
	} else {
		b.WriteString("- Fraud indicators: none\n")
	}
	if md.InjuryClaim {
		b.WriteString("- Injury claim: yes\n")
	} else {
		b.WriteString("- Injury claim: no\n")
	}
	b.WriteString("\n")

	if w := md.StateWarning; w != nil {
		fmt.Fprintf(&b, "## Fraud Warning (%s)\n\n> %s\n\n", w.StateName, w.Warning)
	}

	if s := result.AdjusterSummary; s != nil && s.Enabled {
		fmt.Fprintf(&b, "## Adjuster Summary (%s", s.Provider)
		if s.Model != "" {
			fmt.Fprintf(&b, ", %s", s.Model)
		}
		b.WriteString(")\n\n")
		b.WriteString(s.SummaryMD)
		b.WriteString("\n\n")
		for _, warning := range s.Warnings {
			fmt.Fprintf(&b, "> Warning: %s\n", warning)
		}
		if len(s.Warnings) > 0 {
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n_%s, processed %s. Routing is rule-based; any adjuster summary is advisory only._\n",
			md.FormType, md.ProcessingTimestamp)
	}

	return b.String()
}

// RenderSummary prints a one-line outcome, typically to stderr
func (r *Renderer) RenderSummary(w io.Writer, ref string, result *model.Result) {
	missing := "none"
	if len(result.MissingFields) > 0 {
		missing = strings.Join(result.MissingFields, ", ")
	}
	fmt.Fprintf(w, "%s -> %s (missing: %s)\n", ref, result.RecommendedRoute, missing)
}

// orderedKeys lists present fields in record order, then any unknown keys sorted
func orderedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range model.AllFields {
		if _, ok := fields[string(f)]; ok {
			keys = append(keys, string(f))
			seen[string(f)] = true
		}
	}

	var rest []string
	for k := range fields {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func cell(v any) string {
	var s string
	switch val := v.(type) {
	case []string:
		s = strings.Join(val, ", ")
	case float64: // Amounts
		s = "$" + humanize.FormatFloat("#,###.##", val)
	default:
		s = fmt.Sprint(val)
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
