// Command autoservice runs the repair shop records service and its
// maintenance tasks.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
