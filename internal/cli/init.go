package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cord-sdk/cord-cli/internal/credentials"
)

func newInitCmd(a *app) *cobra.Command {
	var projectID, projectSecret, customerID, customerSecret string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Store cord credentials",
		Long: `Store credentials in the cord credential file.

Only the given values are written; everything else already in the file is kept.
--api-url stores API_URL, the base URL used for all API calls.`,
		Example: `  cord init --project-id my-app --project-secret s3cr3t
  cord init --customer-id acme --customer-secret t0ps3cr3t`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			partial := map[credentials.Key]string{}
			set := func(key credentials.Key, value string) {
				if v := strings.TrimSpace(value); v != "" {
					partial[key] = v
				}
			}
			set(credentials.KeyProjectID, projectID)
			set(credentials.KeyProjectSecret, projectSecret)
			set(credentials.KeyCustomerID, customerID)
			set(credentials.KeyCustomerSecret, customerSecret)
			if cmd.Flags().Changed("api-url") {
				set(credentials.KeyAPIURL, a.provider.Config().APIURL)
			}
			if len(partial) == 0 {
				return errors.New("nothing to store: pass --project-id/--project-secret or --customer-id/--customer-secret")
			}

			store, err := a.provider.CredentialStore()
			if err != nil {
				return err
			}
			if err := store.Write(cmd.Context(), partial); err != nil {
				return err
			}

			var written []string
			for _, key := range credentials.Keys {
				if _, ok := partial[key]; ok {
					written = append(written, key.String())
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in %s\n", strings.Join(written, ", "), store.Path())

			record, err := store.Read(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := record.ApplicationCredentials(); err != nil {
				var missing *credentials.ConfigurationMissingError
				if errors.As(err, &missing) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Note: API calls still need %s\n", joinKeys(missing.Missing))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project-id", "", "project (application) ID")
	cmd.Flags().StringVar(&projectSecret, "project-secret", "", "project (application) secret")
	cmd.Flags().StringVar(&customerID, "customer-id", "", "customer ID for the management API")
	cmd.Flags().StringVar(&customerSecret, "customer-secret", "", "customer secret for the management API")

	return cmd
}

func joinKeys(keys []credentials.Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, " and ")
}
