// Command pdf-form lists and fills the AcroForm fields of a PDF.
//
//	pdf-form list [--format=text|json] form.pdf
//	pdf-form fill --values values.yaml [--out filled.pdf] [--force] form.pdf
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/a3tai/mcp-nencho-tools/internal/logging"
	"github.com/a3tai/mcp-nencho-tools/internal/pdf"
	"github.com/a3tai/mcp-nencho-tools/internal/pdf/forms"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "list":
		err = runList(args[1:], stdout, stderr)
	case "fill":
		err = runFill(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pdf-form list [--format=text|json] <pdf>")
	fmt.Fprintln(w, "  pdf-form fill --values <values.yaml|values.json> [--out <output.pdf>] [--force] <pdf>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The values file maps field names (or IDs) to values:")
	fmt.Fprintln(w, "  氏名: 山田 太郎")
	fmt.Fprintln(w, "  配偶者: true")
}

func newFlagSet(name string, stderr io.Writer) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	logLevel := fs.String("loglevel", "warn", "Log level (debug, info, warn, error)")
	return fs, logLevel
}

func runList(args []string, stdout, stderr io.Writer) error {
	fs, logLevel := newFlagSet("list", stderr)
	format := fs.String("format", "text", "Output format: text, json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("list takes exactly one PDF path")
	}
	if err := logging.Setup(stderr, *logLevel, "text"); err != nil {
		return err
	}

	fields, err := forms.NewExtractor().ExtractFromFile(fs.Arg(0))
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	case "text":
		return writeFieldTable(stdout, fields)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func writeFieldTable(w io.Writer, fields []forms.Field) error {
	if len(fields) == 0 {
		_, err := fmt.Fprintln(w, "no form fields")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPAGE\tVALUE\tOPTIONS")
	for _, f := range fields {
		value := f.Value
		if f.Type == forms.FieldTypeCheckbox {
			value = fmt.Sprintf("%t", f.Checked)
		}
		options := strings.Join(f.DisplayOptions(), "|")
		if f.Type == forms.FieldTypeCheckbox {
			options = f.ExportValue
		}
		if f.ReadOnly {
			value += " (read-only)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", f.ID, f.Name, f.Type, f.Page, value, options)
	}
	return tw.Flush()
}

func runFill(args []string, stdout, stderr io.Writer) error {
	fs, logLevel := newFlagSet("fill", stderr)
	valuesPath := fs.String("values", "", "YAML or JSON file mapping field names to values")
	out := fs.String("out", "", "Output PDF (default: <name>_編集済み.pdf)")
	force := fs.Bool("force", false, "Replace the output file if it already exists")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("fill takes exactly one PDF path")
	}
	if *valuesPath == "" {
		return fmt.Errorf("--values is required")
	}
	if err := logging.Setup(stderr, *logLevel, "text"); err != nil {
		return err
	}

	values, err := loadValues(*valuesPath)
	if err != nil {
		return err
	}

	in := fs.Arg(0)
	output := *out
	if output == "" {
		output = pdf.EditedName(in)
	}
	if filepath.Clean(output) == filepath.Clean(in) {
		return fmt.Errorf("output must differ from the input file")
	}
	if _, err := os.Lstat(output); err == nil && !*force {
		return fmt.Errorf("%s already exists, pass --force to replace it", output)
	}

	report, err := forms.NewFiller().FillFile(in, output, values)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s\n", output)
	fmt.Fprintf(stdout, "updated: %s\n", strings.Join(report.Updated, ", "))
	for _, sk := range report.Skipped {
		fmt.Fprintf(stdout, "skipped: %s (%s)\n", sk.Name, sk.Reason)
	}
	if len(report.Unknown) > 0 {
		fmt.Fprintf(stdout, "unknown: %s\n", strings.Join(report.Unknown, ", "))
	}
	return nil
}

// loadValues reads a flat mapping of field names to values. JSON is a
// subset of YAML, so one decoder serves both. Scalars are kept as written:
// 0123456 stays a postal code and "on" stays text, while checkboxes still
// read true/false, on/off and yes/no from the string.
func loadValues(path string) (forms.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse values file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("values file %s is empty", path)
	}
	return lo.MapValues(raw, func(v string, _ string) any { return v }), nil
}
