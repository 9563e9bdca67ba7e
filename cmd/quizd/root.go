package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the quizd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quizd",
		Short: "quizd - level-progression quiz server",
		Long: `quizd serves a ten-level quiz over HTTP. Users sign up, log in and
answer one question per level; sessions are kept in memory or in Redis.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("quizd " + versionString())
			return nil
		},
	}
}
