package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/echopal-relay/internal/config"
	"github.com/r9s-ai/echopal-relay/internal/gemini"
)

func newCheckCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and exit (no network)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			fmt.Fprintf(out, "ok: config listen=%s\n", cfg.Server.Listen)

			gc, err := gemini.New(gemini.Options{
				BaseURL: cfg.Upstream.BaseURL,
				Model:   cfg.Upstream.Model,
				APIKey:  cfg.Upstream.APIKey,
				Timeout: time.Duration(cfg.Upstream.TimeoutMs) * time.Millisecond,
				Proxy:   cfg.Upstream.Proxy,
			})
			if err != nil {
				return fmt.Errorf("upstream: %w", err)
			}
			fmt.Fprintf(out, "ok: upstream %s\n", gemini.RedactURL(gc.Endpoint()))
			fmt.Fprintln(out, "configuration ok")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "optional config yaml path")
	return cmd
}
