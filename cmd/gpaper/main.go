package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "0.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
