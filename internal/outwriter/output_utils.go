package outwriter

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// resultTable is the tabular form of a result, shared by the text and CSV writers.
type resultTable struct {
	title   string
	headers []string
	rows    [][]string
	footer  []string // text output only
}

// formatter renders cell values. Plain formatters are used for CSV and never color or truncate.
type formatter struct {
	precision int
	plain     bool
	colors    bool
	textWidth int
}

func newFormatter(cfg *contract.Config, plain bool) formatter {
	precision := cfg.Precision
	if precision <= 0 {
		precision = contract.DefaultPrecision
	}
	return formatter{precision: precision, plain: plain}
}

func (f formatter) float(v float64) string {
	return strconv.FormatFloat(v, 'f', f.precision, 64)
}

func (f formatter) int(n int) string {
	return strconv.Itoa(n)
}

// money renders whole currency units. Text output groups thousands.
func (f formatter) money(v float64) string {
	if f.plain {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return groupThousands(int64(math.Round(v)))
}

func (f formatter) percent(v float64) string {
	if f.plain {
		return f.float(v)
	}
	return f.float(v) + "%"
}

func (f formatter) label(score float64) string {
	if f.colors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

func (f formatter) trend(t schema.TrendLabel) string {
	if !f.colors {
		return string(t)
	}
	switch t {
	case schema.TrendHot:
		return contract.CriticalColor.Sprint(t)
	case schema.TrendUp:
		return contract.HighColor.Sprint(t)
	default:
		return contract.ModerateColor.Sprint(t)
	}
}

// text truncates free-form names to the table width budget.
func (f formatter) text(s string) string {
	if f.plain || f.textWidth <= 0 {
		return s
	}
	return contract.TruncateText(s, f.textWidth)
}

// groupThousands formats n with comma separators.
func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// csvHeader turns table headers into snake_case CSV column names.
func csvHeader(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.NewReplacer(" ", "_", "%", "pct", "/", "_").Replace(h)
		out[i] = h
	}
	return out
}

// writeResult dispatches on the configured output format. JSON and YAML encode data as is;
// text and CSV go through the table built by build.
func writeResult(cfg *contract.Config, data any, build func(formatter) resultTable) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, data)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, data)
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		t := build(newFormatter(cfg, true))
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, csvHeader(t.headers), t.rows)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			f := newFormatter(cfg, false)
			f.colors = colorsEnabled(cfg, w)
			f.textWidth = maxTextWidth(cfg)
			return writeTable(w, build(f))
		}, "Wrote table")
	}
	return nil
}

// writeTable renders a titled table followed by its footer lines.
func writeTable(w io.Writer, t resultTable) error {
	if t.title != "" {
		if _, err := fmt.Fprintln(w, t.title); err != nil {
			return err
		}
	}
	table := tablewriter.NewWriter(w)
	table.Header(t.headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(t.rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	for _, line := range t.footer {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// keyValueRows pairs up labels and values for single-record results.
func keyValueRows(pairs ...string) [][]string {
	rows := make([][]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, []string{pairs[i], pairs[i+1]})
	}
	return rows
}

// colorsEnabled reports whether labels may carry ANSI colors. Colors are off when disabled by
// config or when the destination is not a terminal.
func colorsEnabled(cfg *contract.Config, w io.Writer) bool {
	if !cfg.UseColors || color.NoColor {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// maxTextWidth calculates the maximum width for skill, company and city names in table
// output based on terminal width.
func maxTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns, borders and padding
	available := termWidth - 60
	if available < 15 {
		return 15
	}
	if available > 50 {
		return 50
	}
	return available
}

// formatBreakdown lists the hotness components by weighted contribution, largest first.
func formatBreakdown(breakdown map[schema.BreakdownKey]float64) string {
	type part struct {
		key   schema.BreakdownKey
		value float64
	}
	var parts []part
	for _, k := range schema.HotnessKeys {
		if v := schema.HotnessWeights[k] * breakdown[k]; v >= 0.5 {
			parts = append(parts, part{k, v})
		}
	}
	if len(parts) == 0 {
		return "Not applicable"
	}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].value > parts[j].value })
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = string(p.key)
	}
	return strings.Join(names, " > ")
}
