package main

import (
	"os"

	"github.com/yarkm13/fsobj/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
