package config

import (
	"time"

	"github.com/rastraverba/etl/internal/env"
)

// Config carries every process-level setting the pipeline consumes. It is
// built once at startup; the TransfereGov bearer key lives here instead of
// being looked up from the environment at call sites.
type Config struct {
	Year    int
	DryRun  bool
	Limit   int
	Verbose bool

	// Requests per minute enforced between outer API calls.
	RequestsPerMinute int

	// Bearer credential for the TransfereGov API. Empty means
	// unauthenticated calls; the upstream then throttles harder and the
	// retry layer absorbs it.
	TransfereGovKey string

	OutputPath string

	// Optional Postgres DSN for run history. Empty disables the store.
	DBAddr string
}

// FromEnv fills the environment-sourced fields. Flag-sourced fields (year,
// dry-run, limit, verbose) are set by the caller on top of this.
func FromEnv() Config {
	return Config{
		Year:              time.Now().Year(),
		DryRun:            env.GetBool("DRY_RUN", false),
		Verbose:           env.GetBool("VERBOSE", false),
		RequestsPerMinute: env.GetInt("REQUESTS_PER_MINUTE", 60),
		TransfereGovKey:   env.GetString("TRANSFARENCY_API_KEY", ""),
		OutputPath:        env.GetString("OUTPUT_PATH", "data/emendas_rastreadas.parquet"),
		DBAddr:            env.GetString("DB_ADDR", ""),
	}
}
