package main

import (
	"os"

	"github.com/dashlint/dashlint/internal/adapters/inbound/cli"
)

func main() {
	os.Exit(cli.Execute())
}
