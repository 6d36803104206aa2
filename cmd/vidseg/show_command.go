package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidseg/internal/annotation"
	"vidseg/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var version int
	var format string

	cmd := &cobra.Command{
		Use:   "show <video>",
		Short: "Display the stored annotation for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath, err := resolveVideoPath(args[0])
			if err != nil {
				return err
			}
			outputFormat, err := normalizeFormat(format)
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				var ann *annotation.VideoAnnotation
				if version > 0 {
					ann, err = st.LoadVersion(cmd.Context(), videoPath, version)
				} else {
					ann, err = st.Load(cmd.Context(), videoPath)
				}
				if err != nil {
					return fmt.Errorf("load annotation: %w", err)
				}
				if ann == nil {
					if version > 0 {
						return fmt.Errorf("no annotation version %d for %s", version, videoPath)
					}
					return fmt.Errorf("no annotation for %s (run `vidseg process` first)", videoPath)
				}
				switch outputFormat {
				case formatJSON:
					return writeJSON(cmd, newAnnotationView(ann))
				case formatYAML:
					return writeYAML(cmd, newAnnotationView(ann))
				default:
					fmt.Fprint(cmd.OutOrStdout(), renderAnnotation(ann))
					return nil
				}
			})
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "Annotation version to show (default latest)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "versions <video>",
		Short: "List stored annotation versions for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath, err := resolveVideoPath(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				versions, err := st.Versions(cmd.Context(), videoPath)
				if err != nil {
					return fmt.Errorf("list versions: %w", err)
				}
				if jsonOutput {
					return writeJSON(cmd, versions)
				}
				out := cmd.OutOrStdout()
				if len(versions) == 0 {
					fmt.Fprintf(out, "No annotations stored for %s\n", videoPath)
					return nil
				}
				rows := make([][]string, 0, len(versions))
				for _, v := range versions {
					rows = append(rows, []string{
						strconv.Itoa(v.Version),
						yesNo(v.Processed),
						strconv.Itoa(v.Segments),
						strconv.Itoa(v.Markers),
						humanize.Time(v.UpdatedAt),
						v.RunID,
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					numCol("Version"), col("Processed"), numCol("Segments"), numCol("Markers"), col("Updated"), col("Run"),
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print versions as JSON")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos with stored annotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				videos, err := st.Videos(cmd.Context())
				if err != nil {
					return fmt.Errorf("list videos: %w", err)
				}
				if jsonOutput {
					return writeJSON(cmd, videos)
				}
				out := cmd.OutOrStdout()
				if len(videos) == 0 {
					fmt.Fprintln(out, "No annotations stored")
					return nil
				}
				rows := make([][]string, 0, len(videos))
				for _, v := range videos {
					rows = append(rows, []string{
						v.Path,
						strconv.Itoa(v.LatestVersion),
						strconv.Itoa(v.Versions),
						humanize.Time(v.UpdatedAt),
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					col("Video"), numCol("Latest"), numCol("Versions"), col("Updated"),
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print videos as JSON")
	return cmd
}
