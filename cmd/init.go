package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/viewpoint/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a viewpoint project",
	Long: `Create the .viewpoint directory with a default config.yaml in the
current project. Edit it to point at your environments and browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if vpLoader.IsInitialized() && !initForce {
			return fmt.Errorf("project already initialized at %s (use --force to overwrite)", vpLoader.ProjectRoot())
		}
		path := vpLoader.ConfigPath()
		if err := vpLoader.Save(config.DefaultConfig(), path); err != nil {
			return err
		}
		fmt.Printf("Initialized viewpoint project: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}
