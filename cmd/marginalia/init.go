package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hferrand/marginalia/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .marginalia directory for a vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := vaultDir(cmd)
		if err != nil {
			return err
		}
		if err := config.Init(dir); err != nil {
			return err
		}
		fmt.Printf("Initialized %s/.marginalia\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
