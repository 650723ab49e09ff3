package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ebdruplab/semactl/internal/app"
)

var destroyManifestPath string

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Delete the project described by a manifest.",
	Long: `Deletes every project on the server whose name matches the manifest's
project name. If the manifest sets force_project_delete_timer, the delete
waits that many seconds first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper(), destroyManifestPath)
		if err != nil {
			printUserError(err)
			return err
		}

		application := app.NewApplication(result.Deployer, result.Logger)
		if err := application.Destroy(cmd.Context()); err != nil {
			printUserError(err)
			return err
		}
		return nil
	},
}

func init() {
	destroyCmd.Flags().StringVarP(&destroyManifestPath, "file", "f", "", "Manifest file path")
	destroyCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(destroyCmd)
}
