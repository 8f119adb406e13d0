package main

import (
	"os"

	"github.com/Basiic0110/Obdly/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
