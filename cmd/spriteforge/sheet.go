package main

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Faultbox/spriteforge/internal/editor"
	"github.com/Faultbox/spriteforge/internal/fsbridge"
	"github.com/Faultbox/spriteforge/internal/logger"
)

// NewSheetCommand rebuilds a sprite sheet from an exported frame
// directory, optionally dropping frames.
func NewSheetCommand() *cobra.Command {
	var (
		name    string
		format  string
		output  string
		exclude []int
	)

	cmd := &cobra.Command{
		Use:   "sheet <framesDir>",
		Short: "Assemble a sprite sheet from a directory of frame files",
		Long: `Assemble a sprite sheet from a directory of exported frames. Frames
are ordered by the first number in their file name. Use --exclude to
drop individual frames by index before composing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()

			dir := args[0]
			ed := editor.New(fsbridge.Disk{})
			if err := ed.Ingest(dir); err != nil {
				return err
			}

			for _, idx := range exclude {
				if _, ok := ed.Frame(idx); !ok {
					color.New(color.FgYellow).Printf("no frame at index %d, skipping\n", idx)
					continue
				}
				ed.Toggle(idx)
			}

			if name == "" {
				name = filepath.Base(filepath.Clean(dir))
			}
			if format == "" {
				format = cfg.Export.SheetFormat
			}
			if output == "" {
				output = dir
			}

			if err := ed.ExportActiveSheet(output, name, format); err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("✔ sheet written for %d frames\n", len(ed.ActiveFrames()))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "sheet base name (default: directory name)")
	flags.StringVar(&format, "format", "", "sheet format (png, webp)")
	flags.StringVarP(&output, "output", "o", "", "output directory (default: frames directory)")
	flags.IntSliceVar(&exclude, "exclude", nil, "frame indices to leave out")

	return cmd
}
