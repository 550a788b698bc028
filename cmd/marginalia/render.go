package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/hferrand/marginalia/internal/config"
	"github.com/hferrand/marginalia/internal/engine"
	"github.com/hferrand/marginalia/internal/generator"
	"github.com/hferrand/marginalia/internal/logbook"
	"github.com/hferrand/marginalia/internal/markdown"
	"github.com/hferrand/marginalia/internal/pipeline"
	"github.com/hferrand/marginalia/internal/staticrender"
	"github.com/hferrand/marginalia/internal/vault"
)

var renderRaw bool

var renderCmd = &cobra.Command{
	Use:   "render <note>",
	Short: "Statically render one note to the terminal",
	Long: `Runs every mapped annotation in the note through its generator and
prints the rendered document. Unmapped annotations pass through as written;
failed generators leave an inline error marker.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := vaultDir(cmd)
		if err != nil {
			return err
		}
		return runRender(dir, args[0])
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderRaw, "raw", false, "Print plain Markdown instead of styled output")
	rootCmd.AddCommand(renderCmd)
}

// stderrNotifier surfaces pipeline notifications on standard error so
// they never mix with the rendered document on stdout.
type stderrNotifier struct{}

func (stderrNotifier) Notify(message string) {
	fmt.Fprintln(os.Stderr, message)
}

// openEngine assembles the render stack for one vault.
func openEngine(dir string) (*vault.Store, *engine.Engine, *pipeline.Pipeline, error) {
	if err := config.Init(dir); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := vault.Open(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		return nil, nil, nil, err
	}
	loader := generator.NewLoader(store, generator.YaegiCompiler{})
	pipe := pipeline.New(loader, stderrNotifier{}, lb)
	eng := engine.New(loader, lb)
	eng.RebuildMappings(cfg.MappingSnapshot())
	return store, eng, pipe, nil
}

func runRender(dir, note string) error {
	store, eng, pipe, err := openEngine(dir)
	if err != nil {
		return err
	}
	frontMatter, body, err := store.ReadNote(note)
	if err != nil {
		return fmt.Errorf("read %s: %w", note, err)
	}
	frag := markdown.Build(note, body)
	staticrender.New(eng.Table, pipe).RenderFragment(frag, frontMatter)
	out := markdown.ToMarkdown(frag)
	if renderRaw {
		fmt.Print(out)
		return nil
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(out)
		return nil
	}
	styled, err := renderer.Render(out)
	if err != nil {
		fmt.Print(out)
		return nil
	}
	fmt.Print(styled)
	return nil
}
