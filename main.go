package main

import (
	"os"

	"github.com/showrunner/showrunner/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
