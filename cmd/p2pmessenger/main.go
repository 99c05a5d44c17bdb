package main

import (
	"os"

	"p2pmessenger/cmd/p2pmessenger/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
