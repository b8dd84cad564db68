// Command schoolgraph serves the school GraphQL API and its tooling.
package main

import (
	"os"

	logging "github.com/hanpama/schoolgraph/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("schoolgraph failed")
		os.Exit(1)
	}
}
