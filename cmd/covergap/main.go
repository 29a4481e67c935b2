// CLI entry point for CoverGap-Intelligence.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/turtacn/CoverGap-Intelligence/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// A local .env supplies COVERGAP_* settings in development; its absence is normal.
	_ = godotenv.Load()

	os.Exit(cli.Execute(cli.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	}))
}

//Personal.AI order the ending
