package main

import (
	"os"

	"github.com/DIEAbdulHadi/NebuloViz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
