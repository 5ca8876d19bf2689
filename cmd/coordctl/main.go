package main

import (
	"os"

	"github.com/lorrc/coordination-backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
