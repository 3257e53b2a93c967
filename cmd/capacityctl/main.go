// Command capacityctl scores wellness windows offline. It reads a YAML or
// JSON document holding today's observation and the newest-first history and
// prints the analytics results as indented JSON.
//
//	capacityctl score --file window.yaml [--mode observer]
//	capacityctl patterns|recovery|correlations --file window.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
