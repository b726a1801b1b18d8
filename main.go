package main

import (
	"os"

	"github.com/zoepiqian/bufferplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
