package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	overpassql "github.com/ritamzico/overpassql"
	"github.com/ritamzico/overpassql/internal/clierr"
)

var (
	verifyFile    string
	verifyDSN     string
	verifySRID    int
	verifyTimeout int
)

var verifyCmd = &cobra.Command{
	Use:   "verify [query]",
	Short: "Compile a query and EXPLAIN it against a live PostgreSQL database",
	Long: `Compile an Overpass QL query to PostgreSQL SQL and run
EXPLAIN (FORMAT JSON) against a live database, to catch schema mismatches
the compiler itself cannot see. This is diagnostic tooling around the
compiler, not part of the compiler itself: it performs no semantic
validation beyond what the PostgreSQL planner reports.`,
	Example: `  overpassql verify --dsn postgres://localhost/osm 'node(1,2,3,4); out;'`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) > 0 {
			query = args[0]
		} else {
			q, err := readQuery(verifyFile)
			if err != nil {
				return clierr.GeneralError("reading query", err)
			}
			query = q
		}

		dsn := resolveString(verifyDSN, os.Getenv("PGURL"), cfg.Verify.DatabaseURL)
		if dsn == "" {
			return clierr.ConfigError("verify requires --dsn, PGURL, or verify.database_url in config", nil)
		}

		srid := verifySRID
		if srid == 0 {
			srid = cfg.SRID
		}

		c := overpassql.New()
		statements, err := c.Compile(query, "postgres", strconv.Itoa(srid), nil)
		if err != nil {
			logger.Error("compiling query", zap.Error(err))
			return clierr.ParseError("compiling query", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(verifyTimeout)*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return clierr.DBConnectError("connecting to database", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return clierr.DBConnectError("pinging database", err)
		}

		logger.Info("verifying compiled statements", zap.Int("count", len(statements)))

		for i, stmt := range statements {
			if strings.HasPrefix(strings.TrimSpace(stmt), "SET ") {
				continue
			}
			if _, err := pool.Exec(ctx, "EXPLAIN (FORMAT JSON) "+stmt); err != nil {
				logger.Error("statement failed to plan", zap.Int("statement", i), zap.Error(err))
				return clierr.GeneralError(fmt.Sprintf("statement %d failed to plan", i), err)
			}
		}

		fmt.Println("OK: all statements planned successfully")
		return nil
	},
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyFile, "file", "", "read the query from a file instead of the argument or stdin")
	f.StringVar(&verifyDSN, "dsn", "", "database URL (or set PGURL, or verify.database_url in config)")
	f.IntVar(&verifySRID, "srid", 0, "working SRID for spatial transforms")
	f.IntVar(&verifyTimeout, "timeout", 10, "connection and EXPLAIN timeout in seconds")
}
