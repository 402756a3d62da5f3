package main

import (
	"os"

	"github.com/HeoJaeryoung/aice-project/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
