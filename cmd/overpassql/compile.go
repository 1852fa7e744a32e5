package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	overpassql "github.com/ritamzico/overpassql"
	"github.com/ritamzico/overpassql/internal/clierr"
)

var (
	compileFile      string
	compileSRID      int
	compileFinalizer string
)

var compileCmd = &cobra.Command{
	Use:   "compile [dialect]",
	Short: "Compile an Overpass QL query into SQL",
	Long: `Compile an Overpass QL query read from stdin (or --file) into one or
more SQL statements, written to stdout.

The dialect is the first positional argument, falling back to the
configured default when omitted.`,
	Example: `  # Compile stdin against the configured default dialect
  echo 'node["amenity"="cafe"](1,2,3,4); out;' | overpassql compile

  # Compile a query from a file, targeting DuckDB
  overpassql compile duckdb --file query.ql`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := readQuery(compileFile)
		if err != nil {
			logger.Error("reading query", zap.Error(err))
			return clierr.GeneralError("reading query", err)
		}

		dialectName := cfg.Dialect
		if len(args) > 0 {
			dialectName = args[0]
		}

		srid := compileSRID
		if srid == 0 {
			srid = cfg.SRID
		}

		var finalizer *string
		if compileFinalizer != "" {
			finalizer = &compileFinalizer
		}

		c := overpassql.New()
		statements, err := c.Compile(query, dialectName, strconv.Itoa(srid), finalizer)
		if err != nil {
			logger.Error("compiling query", zap.Error(err))
			return clierr.ParseError("compiling query", err)
		}

		for _, stmt := range statements {
			fmt.Println(stmt)
		}

		return nil
	},
}

func init() {
	f := compileCmd.Flags()
	f.StringVar(&compileFile, "file", "", "read the query from a file instead of stdin")
	f.IntVar(&compileSRID, "srid", 0, "working SRID for spatial transforms")
	f.StringVar(&compileFinalizer, "finalizer", "", "SQL template replacing the default out union; {{query}} refers to the last default set")
}

func readQuery(file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
