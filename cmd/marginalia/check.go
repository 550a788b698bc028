package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compile-check every mapped generator",
	Long: `Loads each enabled generator script through the interpreter and
reports scripts that fail to compile or lack a valid Render function.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := vaultDir(cmd)
		if err != nil {
			return err
		}
		return runCheck(dir)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(dir string) error {
	_, eng, _, err := openEngine(dir)
	if err != nil {
		return err
	}
	failures := 0
	for _, name := range eng.Table.Names() {
		m, ok := eng.Table.Lookup(name)
		if !ok {
			continue
		}
		if _, err := eng.Loader.Load(m.GeneratorRef); err != nil {
			failures++
			fmt.Printf("✗ #%s (%s): %v\n", m.Name, m.GeneratorRef, err)
			continue
		}
		fmt.Printf("✓ #%s (%s)\n", m.Name, m.GeneratorRef)
	}
	if failures > 0 {
		return fmt.Errorf("%d generator(s) failed", failures)
	}
	return nil
}
