package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/svgedit/internal/script"
)

var (
	replayOutput string
	replayCheck  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <file.svg> <script.yaml>",
	Short: "Apply a gesture script to an SVG file",
	Long: `Replays the pointer, wheel and keyboard steps of a YAML script against
the SVG file and writes the edited markup.

Example:
  svgedit replay logo.svg nudge.yaml -o logo-edited.svg`,
	Args: cobra.ExactArgs(2),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "", "Write the result here instead of stdout")
	replayCmd.Flags().BoolVar(&replayCheck, "check", false, "Fail unless the script left the document dirty")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svg, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read svg: %w", err)
	}
	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	s, err := script.Load(f)
	if err != nil {
		return err
	}

	res, err := script.Replay(string(svg), s, cfg.Editor.Options()...)
	if err != nil {
		return fmt.Errorf("replay %s: %w", args[1], err)
	}
	if replayCheck && !res.Dirty {
		return fmt.Errorf("script made no changes to %s", args[0])
	}

	if replayOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Content)
		return nil
	}
	if err := os.WriteFile(replayOutput, []byte(res.Content+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
