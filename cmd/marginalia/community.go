package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hferrand/marginalia/internal/community"
	"github.com/hferrand/marginalia/internal/vault"
)

var communityCmd = &cobra.Command{
	Use:   "community",
	Short: "List community generator bundles in this vault",
	Long: `Scans .marginalia/community for materialized bundles and prints the
generators each one ships, with the reference to use in config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := vaultDir(cmd)
		if err != nil {
			return err
		}
		communityDir := filepath.Join(dir, vault.MarginaliaDir, "community")
		bundles, err := community.Discover(communityDir)
		if err != nil {
			return err
		}
		if len(bundles) == 0 {
			fmt.Println("No community bundles installed.")
			return nil
		}
		for _, bundle := range bundles {
			fmt.Printf("%s · %s\n", bundle.Manifest.Name, bundle.Manifest.Description)
			for _, entry := range bundle.Manifest.Generators {
				fmt.Printf("  #%s → %s", entry.Name, bundle.Ref(entry))
				if entry.Description != "" {
					fmt.Printf("  (%s)", entry.Description)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(communityCmd)
}
