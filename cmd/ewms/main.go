// Command ewms is the ward board CLI. It talks to a running ewmsd over its
// HTTP API, except for serve, which runs the daemon in the foreground.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
