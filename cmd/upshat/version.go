package main

import (
	"github.com/spf13/cobra"

	"github.com/hat-tools/upshat/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("client: %s %s\n", version.Version, version.GitCommit)

			if v, err := apiClient().GetVersion(); err == nil {
				cmd.Printf("daemon: %s\n", v)
			}
		},
	}
}
