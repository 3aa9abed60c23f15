package main

import (
	"os"

	"github.com/bensuskins/family-meals/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
