package main

import (
	"os"

	"github.com/NiceneNerd/ukmm-release/src/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
