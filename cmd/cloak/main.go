package main

import (
	"os"

	"github.com/dshills/cloak/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
