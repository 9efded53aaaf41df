package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"monadswap/internal/config"
	"monadswap/internal/health"
	"monadswap/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connectivity to the RPC node and the 0x API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newChainClient()
		httpClient := &http.Client{Timeout: 10 * time.Second}

		spin := ui.NewSpinner("Probing endpoints...")
		spin.Start()
		checks := health.Run(cmd.Context(),
			func(ctx context.Context) health.Check {
				return health.CheckRPC(ctx, client, cfg.RPCURL, config.ChainID)
			},
			func(ctx context.Context) health.Check {
				return health.CheckZeroEx(ctx, httpClient, cfg.ZeroExURL)
			},
		)
		spin.Stop()

		failed := 0
		for _, check := range checks {
			if check.OK() {
				fmt.Println(ui.Success(fmt.Sprintf("%-8s %s  %s (%s)", check.Name, check.Target, check.Detail, check.Latency.Round(time.Millisecond))))
				continue
			}
			failed++
			fmt.Println(ui.Err(fmt.Sprintf("%-8s %s  %v", check.Name, check.Target, check.Err)))
		}
		if cfg.ZeroExAPIKey == "" {
			fmt.Println(ui.Warn("no 0x API key configured"))
			fmt.Println(ui.Hint("set it with `monadswap config set zeroex_api_key <key>` or MONADSWAP_ZEROEX_API_KEY"))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(checks))
		}
		return nil
	},
}
