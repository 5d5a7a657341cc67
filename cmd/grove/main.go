// Command grove opens the cube canvas or replays a scripted session against
// it without a window.
//
//	grove run [--config grove.yaml] [--debug]
//	grove script session.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
