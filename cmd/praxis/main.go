package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "praxis",
		Short: "Praxis blockchain node",
		Long:  "Praxis runs a permissioned blockchain node hosting native services.",
	}
	root.AddCommand(runCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
