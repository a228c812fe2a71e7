package main

import (
	"os"

	"github.com/bgunnarsson/sqlpad/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
