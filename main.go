package main

import (
	"os"

	"github.com/conneroisu/islet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
