package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hferrand/marginalia/internal/config"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "List annotation mappings from config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := vaultDir(cmd)
		if err != nil {
			return err
		}
		cfg, err := config.Load(dir)
		if err != nil {
			return err
		}
		snapshot := cfg.MappingSnapshot()
		if len(snapshot) == 0 {
			fmt.Println("No mappings configured.")
			return nil
		}
		for _, m := range snapshot {
			state := "enabled"
			if !m.Enabled {
				state = "disabled"
			}
			fmt.Printf("#%s → %s (%s)\n", m.Name, m.GeneratorRef, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
}
