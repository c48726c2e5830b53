package main

import (
	"os"

	"github.com/kroma-labs/tinyhttp/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
