package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// newRootCmd builds the command tree. Each call returns fresh commands with
// their own flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "micrograd",
		Short: "A tiny scalar autograd engine and MLP trainer",
		Long: `micrograd builds a computation graph over scalar values, runs
reverse-mode differentiation over it and trains a small multi-layer
perceptron with plain gradient descent.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newTrainCmd(), newBackpropCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
