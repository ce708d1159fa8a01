package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"room-service/internal/generation"
	"room-service/internal/services"
)

func newPromptCmd() *cobra.Command {
	var roomType, suggestions string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the design and image prompts built from an improvement brief",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := services.ParseConceptPayload(services.ConceptPayload{
				ImprovementSuggestions: suggestions,
				RoomType:               roomType,
			})
			if err != nil {
				return err
			}

			desc := generation.FallbackDescription(req.ImprovementSuggestions, req.RoomType)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# design prompt\n%s\n\n", generation.DesignPrompt(req))
			fmt.Fprintf(out, "# image prompt\n%s\n", generation.ImagePrompt(desc.Text, req.RoomType))
			return nil
		},
	}

	cmd.Flags().StringVar(&roomType, "room-type", "living_room", "room type")
	cmd.Flags().StringVar(&suggestions, "suggestions", "", `improvement brief as JSON, e.g. {"lighting":"add lamps"}`)
	_ = cmd.MarkFlagRequired("suggestions")

	return cmd
}

func newPlaceholderCmd() *cobra.Command {
	var roomType, description, output string

	cmd := &cobra.Command{
		Use:   "placeholder",
		Short: "Render the placeholder visualization PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := generation.RenderPlaceholder(roomType, description)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&roomType, "room-type", "living_room", "room type")
	cmd.Flags().StringVar(&description, "description", "", "design description to caption")
	cmd.Flags().StringVarP(&output, "output", "o", "placeholder.png", "output file")

	return cmd
}
