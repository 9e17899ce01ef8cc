package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ngcrud-seed",
		Short: "Seed tool for NgCRUD",
		Long:  "CLI tool that links a Firebase user to its profile and writes sample things owned by that user",
	}

	rootCmd.AddCommand(newThingsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
