package main

import (
	"os"

	"github.com/ikari-pl/go-graphscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
