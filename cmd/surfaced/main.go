package main

import (
	"os"

	"github.com/kitchenlab/surface/cmd/surfaced/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
