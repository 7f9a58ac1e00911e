package main

import (
	"os"

	"github.com/ricardofaria/classforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
