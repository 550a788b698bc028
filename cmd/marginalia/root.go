package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hferrand/marginalia/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "marginalia",
	Short: "Marginalia renders inline annotations in your Markdown notes",
	Long: `Marginalia is an annotation engine for Markdown vaults. Notes may embed
#name{key: value} annotations; each name maps to a Go generator script that
runs at render time and replaces the annotation with its output.

Without a subcommand, marginalia opens the two-pane editor.`,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := vaultDir(cmd)
		if err != nil {
			return err
		}
		app, err := tui.NewApp(dir)
		if err != nil {
			return fmt.Errorf("open vault: %w", err)
		}
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run editor: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("vault", ".", "Vault directory")
}

func vaultDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("vault")
	if err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}
