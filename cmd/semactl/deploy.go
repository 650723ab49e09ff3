package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ebdruplab/semactl/internal/app"
)

var deployManifestPath string

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Reconcile a Semaphore project against a manifest.",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper(), deployManifestPath)
		if err != nil {
			printUserError(err)
			return err
		}

		application := app.NewApplication(result.Deployer, result.Logger)
		if err := application.Run(cmd.Context()); err != nil {
			printUserError(err)
			return err
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVarP(&deployManifestPath, "file", "f", "", "Manifest file path")
	deployCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(deployCmd)
}
