package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"boardcheck/internal/insights"
	"boardcheck/internal/language"
	"boardcheck/internal/services/videoindex"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Video insight utilities",
	}
	videoCmd.AddCommand(newVideoUploadCommand(ctx))
	videoCmd.AddCommand(newVideoInfoCommand(ctx))
	videoCmd.AddCommand(newVideoThumbnailsCommand(ctx))
	return videoCmd
}

func videoClient(ctx *commandContext) (*videoindex.Client, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return videoindex.New(cfg.VideoIndex.Endpoint, cfg.VideoIndex.APIKey, cfg.VideoIndex.AccountID)
}

func newVideoUploadCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a passenger video for insight indexing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := videoClient(ctx)
			if err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				name = args[0]
			}
			id, err := client.Upload(cmd.Context(), args[0], name, cfg.Verification.VideoLanguage)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video uploaded: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name for the uploaded video")
	return cmd
}

func newVideoInfoCommand(ctx *commandContext) *cobra.Command {
	var videoLanguage string

	cmd := &cobra.Command{
		Use:   "info <video-id>",
		Short: "Show processing state and insights for an uploaded video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			lang := cfg.Verification.VideoLanguage
			if trimmed := strings.TrimSpace(videoLanguage); trimmed != "" {
				if _, ok := language.Normalize(trimmed); !ok {
					return fmt.Errorf("unsupported video language %q (supported: %s)",
						trimmed, strings.Join(language.Supported(), ", "))
				}
				lang = trimmed
			}

			client, err := videoClient(ctx)
			if err != nil {
				return err
			}
			index, err := client.VideoIndex(cmd.Context(), args[0], lang)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video: %s\n", index.ID)
			if index.Name != "" {
				fmt.Fprintf(out, "Name: %s\n", index.Name)
			}
			fmt.Fprintf(out, "State: %s\n", index.State)
			if len(index.Videos) > 0 {
				faces := index.Videos[0].Insights.Faces
				fmt.Fprintf(out, "Faces: %d\n", len(faces))
				for _, f := range faces {
					fmt.Fprintf(out, "  face %d (%s): %d thumbnails\n", f.ID, f.Name, len(f.Thumbnails))
				}
			}
			if index.SummarizedInsights != nil {
				printObservations(out, "Sentiments", index.SummarizedInsights.Sentiments)
				printObservations(out, "Emotions", index.SummarizedInsights.Emotions)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&videoLanguage, "language", "", "Insight language (defaults to the configured one)")
	return cmd
}

func printObservations(out io.Writer, label string, observations []videoindex.Observation) {
	if len(observations) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", label)
	for _, obs := range observations {
		fmt.Fprintf(out, "  %s: %.0f%%\n", obs.Type, obs.Percentage*100)
	}
}

func newVideoThumbnailsCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "thumbnails <video-id>",
		Short: "Download the reference face thumbnails of an indexed video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			client, err := videoClient(ctx)
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputDir) == "" {
				outputDir = cfg.Paths.ThumbnailDir
			}

			collector := insights.NewCollector(client, cfg.Verification.VideoLanguage, logger,
				insights.WithPollInterval(cfg.IndexingPollInterval()),
				insights.WithTimeout(cfg.IndexingTimeout()))
			index, err := collector.AwaitIndexed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			paths, err := collector.CollectReferenceFaces(cmd.Context(), index, outputDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range paths {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for downloaded thumbnails")
	return cmd
}
