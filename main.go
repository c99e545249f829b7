package main

import (
	"os"

	"github.com/iShinzoo/LimitOrder/internal/cli"
)

func main() {
	if !cli.Run(os.Args) {
		os.Exit(1)
	}
}
