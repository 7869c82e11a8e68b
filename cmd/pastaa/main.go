package main

import (
	"os"

	"pastaa/cmd/pastaa/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
