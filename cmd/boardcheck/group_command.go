package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"boardcheck/internal/enroll"
	"boardcheck/internal/services/face"
	"boardcheck/internal/textutil"
)

func newGroupCommand(ctx *commandContext) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Person group utilities",
	}
	groupCmd.AddCommand(newGroupCreateCommand(ctx))
	groupCmd.AddCommand(newGroupDeleteCommand(ctx))
	return groupCmd
}

func faceClient(ctx *commandContext) (*face.Client, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return face.New(cfg.Face.Endpoint, cfg.Face.APIKey)
}

func newGroupCreateCommand(ctx *commandContext) *cobra.Command {
	var groupID string
	var images []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Enroll and train a person group from reference images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(images) == 0 {
				return fmt.Errorf("at least one --image is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			client, err := faceClient(ctx)
			if err != nil {
				return err
			}

			if strings.TrimSpace(groupID) == "" {
				groupID = uuid.NewString()
			}
			name := textutil.SanitizeToken(args[0])

			enroller := enroll.NewEnroller(client, logger,
				enroll.WithPollInterval(cfg.TrainingPollInterval()),
				enroll.WithTimeout(cfg.TrainingTimeout()))
			group, err := enroller.EnrollPerson(cmd.Context(), groupID, name, images)
			if err != nil {
				return err
			}
			if err := enroller.Train(cmd.Context(), group); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Group: %s\n", group.ID)
			fmt.Fprintf(out, "Person: %s (%s)\n", group.Name, group.PersonID)
			fmt.Fprintf(out, "Faces enrolled: %d\n", len(group.FaceIDs))
			fmt.Fprintf(out, "State: %s\n", group.State)
			return nil
		},
	}
	cmd.Flags().StringVar(&groupID, "group-id", "", "Group identifier (defaults to a generated one)")
	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Reference image path or URL (repeatable)")
	return cmd
}

func newGroupDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a person group and its enrolled faces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := faceClient(ctx)
			if err != nil {
				return err
			}
			if err := client.DeletePersonGroup(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Group %s deleted\n", args[0])
			return nil
		},
	}
}
