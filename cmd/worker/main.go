package main

import (
	"os"

	"github.com/lojaweb/storefront-api/cmd/worker/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
