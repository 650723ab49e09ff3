package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ebdruplab/semactl/internal/app"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the Semaphore server is reachable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := app.BuildClientFromViper(cmd.Context(), viper.GetViper())
		if err != nil {
			printUserError(err)
			return err
		}

		if err := client.Ping(cmd.Context()); err != nil {
			printUserError(err)
			return err
		}
		fmt.Printf("%s: pong\n", client.BaseURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
