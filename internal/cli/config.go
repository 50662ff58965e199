package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the credential file",
	}

	var output string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored credentials with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.provider.CredentialStore()
			if err != nil {
				return err
			}
			record, err := store.Read(cmd.Context())
			if err != nil {
				return err
			}
			if len(record) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No credentials in %s; run \"cord init\"\n", store.Path())
				return nil
			}
			return printValue(cmd.OutOrStdout(), output, record.Redacted())
		},
	}
	addOutputFlag(show, &output, outputYAML)

	cmd.AddCommand(show)
	return cmd
}
