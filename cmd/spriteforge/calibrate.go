package main

import (
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Faultbox/spriteforge/internal/calibrate"
	"github.com/Faultbox/spriteforge/internal/logger"
	"github.com/Faultbox/spriteforge/internal/modelio"
)

// NewCalibrateCommand manages model calibration profiles.
func NewCalibrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Analyze models and manage calibration profiles",
	}

	cmd.AddCommand(
		newCalibrateAnalyzeCommand(),
		newCalibrateSaveCommand(),
		newCalibrateListCommand(),
		newCalibrateDeleteCommand(),
	)

	return cmd
}

func newCalibrateAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <model.yaml>",
		Short: "Compute and print a model's normalization transform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()

			rig, err := modelio.Load(args[0])
			if err != nil {
				return err
			}

			cal, err := calibrate.NewEngine(rig.Model, nil).Analyze()
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			bold.Printf("Model size:    %.3f x %.3f x %.3f\n", cal.OriginalSize.X, cal.OriginalSize.Y, cal.OriginalSize.Z)
			bold.Printf("Scale:         %.4f (target height %.1f)\n", cal.NormalizedScale, cal.TargetHeight)
			bold.Printf("Ground offset: %.4f\n", cal.GroundOffset)
			return nil
		},
	}
}

func newCalibrateSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <model.yaml> <profile>",
		Short: "Calibrate a model and save the result as a named profile",
		Long: `Calibrate a model and save the result as a named profile.
The model's current facing is frozen as the canonical front. Saving to
an existing name overwrites it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()

			rig, err := modelio.Load(args[0])
			if err != nil {
				return err
			}

			engine := calibrate.NewEngine(rig.Model, profileStore())
			if _, err := engine.Analyze(); err != nil {
				return err
			}
			if !engine.Apply() {
				return errors.New("calibration could not be applied to the model")
			}
			engine.SetFrontFace()

			if err := engine.SaveProfile(args[1]); err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("✔ profile %q saved\n", args[1])
			return nil
		},
	}
}

func newCalibrateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved calibration profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := profileStore().List()
			if len(names) == 0 {
				cmd.Println("No profiles saved.")
				return nil
			}
			for _, name := range names {
				cmd.Println(name)
			}
			return nil
		},
	}
}

func newCalibrateDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile>",
		Short: "Delete a saved calibration profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := profileStore().Delete(args[0]); err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("✔ profile %q deleted\n", args[0])
			return nil
		},
	}
}
