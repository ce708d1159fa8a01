// Package cli implements roomctl, the offline companion to the room service.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"room-service/internal/logging"
)

// New builds the roomctl command tree writing results to out.
func New(out io.Writer) *cobra.Command {
	var verbose bool
	logger := zap.NewNop()

	root := &cobra.Command{
		Use:           "roomctl",
		Short:         "Analyze rooms and preview visualizations without running the service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			l, err := logging.New("debug", true)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	getLogger := func() *zap.Logger { return logger }
	root.AddCommand(newAnalyzeCmd(getLogger))
	root.AddCommand(newPromptCmd())
	root.AddCommand(newPlaceholderCmd())

	return root
}
