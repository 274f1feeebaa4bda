// Command chart-extractor extracts chart data from a local document.
package main

import (
	"fmt"
	"os"

	"github.com/spherical/chart-extractor/cmd/chart-extractor/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
