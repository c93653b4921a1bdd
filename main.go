package main

import (
	"os"

	"github.com/jobreach/jobreach/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
