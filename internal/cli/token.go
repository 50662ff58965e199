package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cord-sdk/cord-cli/internal/token"
)

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint tokens locally",
	}

	client := &cobra.Command{
		Use:   "client <userId>",
		Short: "Print a client auth token for a user",
		Long: `Print a client auth token for userId, signed with PROJECT_SECRET.

Useful for trying out a front end without running a token server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.provider.CredentialStore()
			if err != nil {
				return err
			}
			record, err := store.Read(cmd.Context())
			if err != nil {
				return err
			}
			creds, err := record.ApplicationCredentials()
			if err != nil {
				return err
			}
			signer, err := a.provider.Signer()
			if err != nil {
				return err
			}

			tok, err := signer.ClientToken(creds.ProjectID, creds.ProjectSecret, map[string]any{
				token.ClaimUserID: args[0],
			})
			if err != nil {
				return fmt.Errorf("failed to sign client token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.AddCommand(client)
	return cmd
}
