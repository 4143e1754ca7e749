package main

import (
	"os"

	"github.com/quarry-games/pentad/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
