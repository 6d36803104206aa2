package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidseg/internal/logging"
	"vidseg/internal/processing"
	"vidseg/internal/store"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var noParticipants bool
	var newVersion bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Segment a video into tasks and participant markers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath, err := resolveVideoPath(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			proc, err := processing.New(cfg, logger)
			if err != nil {
				return err
			}

			reporter := newProgressReporter(cmd.ErrOrStderr(), logger)
			ann, err := proc.Process(cmd.Context(), videoPath, processing.Options{SkipParticipants: noParticipants}, reporter.update)
			reporter.finish()
			if err != nil {
				return err
			}

			return ctx.withStore(func(st *store.Store) error {
				version, err := st.Save(cmd.Context(), ann, newVersion)
				if err != nil {
					return fmt.Errorf("save annotation: %w", err)
				}
				logger.Info("annotation saved",
					logging.String(logging.FieldVideo, ann.VideoPath),
					logging.Int("version", version),
					logging.String("store", st.Path()),
				)
				if jsonOutput {
					return writeJSON(cmd, newAnnotationView(ann))
				}
				fmt.Fprint(cmd.OutOrStdout(), renderAnnotation(ann))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noParticipants, "no-participants", false, "Skip participant card detection")
	cmd.Flags().BoolVar(&newVersion, "new-version", false, "Store the result as a new version instead of overwriting")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the annotation as JSON")
	return cmd
}
