package main

import (
	"os"

	"github.com/abhisek/clil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
