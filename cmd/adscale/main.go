package main

import (
	"os"

	"github.com/rburke/adscale/cmd/adscale/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
