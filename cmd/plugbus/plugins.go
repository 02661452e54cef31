package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/plugbus/pkg/host"
)

func newPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Plugin manifest commands",
	}

	var manifestPath string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the plugins in the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := host.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			for _, p := range manifest.Plugins {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.Name, p.RefID, p.Path)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&manifestPath, "plugins", "plugins.yaml", "plugin manifest path")

	cmd.AddCommand(listCmd)
	return cmd
}
