package main

import (
	"os"

	"github.com/qri-io/jsondiff/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
