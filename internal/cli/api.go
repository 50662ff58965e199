package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cord-sdk/cord-cli/internal/dispatch"
)

func newAPICmd(a *app) *cobra.Command {
	var (
		method string
		data   string
		fields []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "api <endpoint>",
		Short: "Call the application REST API",
		Long: `Call an endpoint of the application REST API, signed with PROJECT_ID and PROJECT_SECRET.

The endpoint is relative to the API base URL, e.g. "users/u1" or "threads".
Send a JSON body with -d, or a multipart form with -F (field=value, or field=@path to upload a file).`,
		Example: `  cord api users/u1
  cord api users/u1 -X PUT -d '{"name":"Ada"}'
  cord api files -X POST -F ownerID=u1 -F file=@avatar.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data != "" && len(fields) > 0 {
				return errors.New("-d and -F cannot be combined")
			}

			var body *dispatch.Payload
			switch {
			case data != "":
				body = dispatch.JSONPayload(data)
			case len(fields) > 0:
				var err error
				if body, err = buildForm(fields); err != nil {
					return err
				}
			}

			d, err := a.provider.Dispatcher()
			if err != nil {
				return err
			}
			resp, err := dispatch.CallApplicationAPI[json.RawMessage](cmd.Context(), d, args[0], method, body)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), output, resp)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method: GET, POST, PUT, DELETE")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&fields, "field", "F", nil, "multipart form field, field=value or field=@file (repeatable)")
	addOutputFlag(cmd, &output, outputJSON)

	return cmd
}

// buildForm turns field=value and field=@path arguments into a multipart payload
func buildForm(fields []string) (*dispatch.Payload, error) {
	form := dispatch.NewForm()
	for _, f := range fields {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid form field %q: expected field=value or field=@file", f)
		}

		path, isFile := strings.CutPrefix(value, "@")
		if !isFile {
			if err := form.Field(name, value); err != nil {
				return nil, err
			}
			continue
		}

		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		err = form.File(name, filepath.Base(path), file)
		file.Close()
		if err != nil {
			return nil, err
		}
	}
	return form.Payload()
}

func newManagementCmd(a *app) *cobra.Command {
	var (
		method string
		data   string
		output string
	)

	cmd := &cobra.Command{
		Use:     "management <endpoint>",
		Aliases: []string{"mgmt"},
		Short:   "Call the management API",
		Long: `Call an endpoint of the management API, signed with CUSTOMER_ID and CUSTOMER_SECRET.

Project credentials are never used for these calls.`,
		Example: `  cord management projects
  cord management projects -X POST -d '{"name":"staging"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.provider.Dispatcher()
			if err != nil {
				return err
			}
			resp, err := dispatch.CallManagementAPI[json.RawMessage](cmd.Context(), d, args[0], method, data)
			if err != nil {
				return err
			}
			return printRaw(cmd.OutOrStdout(), output, resp)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method: GET, POST, PUT, DELETE")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	addOutputFlag(cmd, &output, outputJSON)

	return cmd
}
