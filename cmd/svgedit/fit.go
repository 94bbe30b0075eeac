package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/svgedit/internal/script"
)

var (
	fitWidth  float64
	fitHeight float64
	fitWrite  bool
)

var fitCmd = &cobra.Command{
	Use:   "fit <file.svg>",
	Short: "Print the viewBox that fits the drawing",
	Long: `Computes the padded viewBox framing every shape, matched to the aspect
ratio of a width x height viewport. With --write the file is updated.`,
	Args: cobra.ExactArgs(1),
	RunE: runFit,
}

func init() {
	fitCmd.Flags().Float64Var(&fitWidth, "width", 0, "Viewport width in pixels (0 keeps the content aspect)")
	fitCmd.Flags().Float64Var(&fitHeight, "height", 0, "Viewport height in pixels")
	fitCmd.Flags().BoolVarP(&fitWrite, "write", "w", false, "Rewrite the file with the fitted viewBox")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	svg, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read svg: %w", err)
	}

	s := &script.Script{
		Surface: script.Surface{Width: fitWidth, Height: fitHeight},
		Steps:   []script.Step{{Fit: true}},
	}
	res, err := script.Replay(string(svg), s)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.ViewBox)
	if fitWrite {
		if err := os.WriteFile(args[0], []byte(res.Content+"\n"), 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}
