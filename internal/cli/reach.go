package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/internal/config"
	"github.com/wesleyorama2/courier/internal/output"
)

func newReachCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "reach",
		Short: "Report whether the network is reachable right now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}

			if newReachability(cfg).Available(cmd.Context()) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s reachable\n", output.SuccessIcon(cfg.NoColor))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s unreachable\n", output.ErrorIcon(cfg.NoColor))
			return http.ErrOffline
		},
	}
}
