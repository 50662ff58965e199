package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cord-sdk/cord-cli/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the CLI version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipVersionCheck: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cord %s\n", version.Version)
		},
	}
}
