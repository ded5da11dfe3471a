package main

import (
	"os"

	"github.com/agnel18/DevCollab/internal/devcollab"
)

func main() {
	os.Exit(devcollab.Run(os.Args[1:], os.Stdout, os.Stderr, os.Environ()))
}
