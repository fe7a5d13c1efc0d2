package main

import (
	"os"

	"github.com/thetarby/rwsim/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
