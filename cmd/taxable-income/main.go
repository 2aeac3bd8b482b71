// Command taxable-income converts an annual salary income into taxable
// salary income and prints the reference table.
//
//	taxable-income 3,600,000
//	taxable-income --table
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-nencho-tools/internal/tax"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type output struct {
	Income  int64  `json:"income"`
	Taxable string `json:"taxable"`
	Yen     int64  `json:"yen"`
	Bracket int    `json:"bracket"`
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("taxable-income", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	tableOnly := fs.Bool("table", false, "Print the reference table only")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	quiet := fs.BoolP("quiet", "q", false, "Do not print the reference table")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: taxable-income [--json] [--quiet] <給与の収入金額>")
		fmt.Fprintln(stderr, "       taxable-income --table")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *tableOnly {
		fmt.Fprint(stdout, tax.Table(-1))
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	income, err := tax.ParseIncome(strings.Join(fs.Args(), ""))
	if err != nil {
		fmt.Fprintln(stderr, tax.ErrInvalidIncome.Error())
		return 1
	}
	result := tax.Compute(income)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output{
			Income:  result.Income,
			Taxable: result.Taxable.String(),
			Yen:     result.Yen,
			Bracket: result.Bracket,
		}); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stdout, "給与の収入金額: %s\n", tax.FormatYenInt(result.Income))
	fmt.Fprintf(stdout, "給与所得の金額: %s\n", tax.FormatYen(result.Taxable))
	if !*quiet {
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, tax.Table(result.Bracket))
	}
	return 0
}
