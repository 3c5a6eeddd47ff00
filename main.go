// main is the entry point for the fleetrisk CLI.
package main

import (
	"github.com/huangsam/fleetrisk/cmd"
	"github.com/huangsam/fleetrisk/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Cannot run fleetrisk", err)
	}
}
