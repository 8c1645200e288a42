// Command agentflow runs the research, summary and email agents
// from the command line or as an HTTP service.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
