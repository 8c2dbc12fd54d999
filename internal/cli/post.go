package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/courier/http"
)

func newPostCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Make a POST request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawHeaders, _ := cmd.Flags().GetStringArray("header")
			data, _ := cmd.Flags().GetString("data")
			jsonData, _ := cmd.Flags().GetString("json")

			if data != "" && jsonData != "" {
				return errors.New("use either --data or --json, not both")
			}

			headers, err := parseHeaders(rawHeaders)
			if err != nil {
				return err
			}
			rf, err := readRequestFlags(cmd)
			if err != nil {
				return err
			}

			opts := []http.RequestOption{http.WithHeaders(headers)}
			switch {
			case data != "":
				opts = append(opts, http.WithBody([]byte(data)))
			case jsonData != "":
				if _, ok := headers["Content-Type"]; !ok {
					opts = append(opts, http.WithHeader("Content-Type", "application/json"))
				}
				opts = append(opts, http.WithBody([]byte(jsonData)))
			}

			rt, err := newRuntime(cmd, v)
			if err != nil {
				return err
			}
			defer rt.Close()

			req, err := rt.client.NewRequest(http.MethodPost, args[0], opts...)
			if err != nil {
				return err
			}

			return send(cmd, rt, req, rf)
		},
	}

	addRequestFlags(cmd)
	cmd.Flags().StringP("data", "d", "", "Data to send in the request body")
	cmd.Flags().StringP("json", "j", "", "JSON data to send in the request body")

	return cmd
}
