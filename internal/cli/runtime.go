package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/internal/config"
	"github.com/wesleyorama2/courier/internal/logger"
	"github.com/wesleyorama2/courier/internal/output"
	"github.com/wesleyorama2/courier/notify"
	"github.com/wesleyorama2/courier/reachability"
)

// newReachability builds the connectivity gate for cfg. Tests replace it.
var newReachability = func(cfg *config.Config) http.Reachability {
	if cfg.Offline {
		return reachability.New(reachability.WithSource(reachability.Static(false)))
	}
	return reachability.New(reachability.WithProbeAddress(cfg.ProbeAddress))
}

// newTransport builds the transport named in cfg. Tests replace it.
var newTransport = func(cfg *config.Config) http.Transport {
	if cfg.Transport == config.TransportResty {
		return http.NewRestyTransport(nil)
	}
	return http.NewNetTransport(nil)
}

// runtime is everything one command invocation needs.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	ui        *notify.Queue
	client    *http.Client
	formatter output.FormatProvider
}

func newRuntime(cmd *cobra.Command, v *viper.Viper) (*runtime, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	ui := notify.NewQueue(output.NewTerminalNotifier(cmd.ErrOrStderr(), cfg.NoColor))

	client := http.NewClient(
		http.WithTransport(newTransport(cfg)),
		http.WithReachability(newReachability(cfg)),
		http.WithNotifier(ui),
		http.WithLogger(log),
		http.WithClientTimeout(cfg.Timeout),
	)

	return &runtime{
		cfg:       cfg,
		logger:    log,
		ui:        ui,
		client:    client,
		formatter: output.GetFormatter(output.OutputFormat(cfg.Output), cfg.Verbose, cfg.NoColor),
	}, nil
}

// Close drains pending UI notifications and flushes the logger.
func (r *runtime) Close() {
	r.ui.Close()
	_ = r.logger.Sync()
}
