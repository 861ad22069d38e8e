// Command marquee plays an overshoot-animation show on a terminal or
// renders it to PNG frames.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/marquee/cmd/marquee/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
