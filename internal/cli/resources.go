package cli

import (
	"encoding/json"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/cord-sdk/cord-cli/internal/dispatch"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects (management API)",
	}

	var output string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the projects of the customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.provider.Dispatcher()
			if err != nil {
				return err
			}
			projects, err := dispatch.CallManagementAPI[json.RawMessage](cmd.Context(), d, "projects", "GET", "")
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), output, projects)
		},
	}
	addOutputFlag(list, &output, outputJSON)

	cmd.AddCommand(list)
	return cmd
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect users (application REST API)",
	}

	var output string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.provider.Dispatcher()
			if err != nil {
				return err
			}
			user, err := dispatch.CallApplicationAPI[json.RawMessage](cmd.Context(), d, "users/"+url.PathEscape(args[0]), "GET", nil)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), output, user)
		},
	}
	addOutputFlag(get, &output, outputJSON)

	cmd.AddCommand(get)
	return cmd
}
