// main is the entry point for the velostat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/velostat/velostat/cmd"
	"github.com/velostat/velostat/internal/contract"
	"github.com/velostat/velostat/internal/iocache"
)

func main() {
	// Commands resolve the concrete stores lazily, after sharedSetup has
	// initialized the global manager from the validated config.
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()

	err := cmd.Execute()

	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("could not stop profiling cleanly", profErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		iocache.CloseCaching()
		os.Exit(1)
	}
}
