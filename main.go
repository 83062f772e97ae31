package main

import (
	"fmt"
	"os"

	"github.com/TFMV/spectragraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "spectragraph:", err)
		os.Exit(1)
	}
}
