package main

import (
	"os"

	"github.com/jcoope02/annotation-scripts/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
