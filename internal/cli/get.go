package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/pkg/query"
)

func newGetCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Make a GET request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawHeaders, _ := cmd.Flags().GetStringArray("header")
			rawQuery, _ := cmd.Flags().GetStringArray("query")

			headers, err := parseHeaders(rawHeaders)
			if err != nil {
				return err
			}
			pairs, err := parsePairs("query", rawQuery)
			if err != nil {
				return err
			}
			target, err := query.AppendTo(args[0], pairs)
			if err != nil {
				return err
			}
			rf, err := readRequestFlags(cmd)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd, v)
			if err != nil {
				return err
			}
			defer rt.Close()

			req, err := rt.client.NewRequest(http.MethodGet, target, http.WithHeaders(headers))
			if err != nil {
				return err
			}

			return send(cmd, rt, req, rf)
		},
	}

	addRequestFlags(cmd)
	cmd.Flags().StringArrayP("query", "q", []string{}, "Query parameter as key=value (can be used multiple times)")

	return cmd
}
