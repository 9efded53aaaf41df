package cmd

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"monadswap/internal/chain"
	"monadswap/internal/config"
	"monadswap/internal/token"
	"monadswap/internal/wallet"
	"monadswap/internal/zeroex"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X monadswap/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "monadswap",
	Short: "Token swaps on Monad testnet",
	Long: `monadswap — swap and wrap tokens on Monad testnet from the terminal.

  Quote and execute ERC20 swaps through the 0x permit2 pipeline, wrap
  native MON, inspect balances and allowances, and run the mini app's
  backing service.

Set MONADSWAP_ZEROEX_API_KEY (or zeroex_api_key in the config file) before
using the quote-driven commands.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		// A local .env is the easiest place for the API key.
		_ = godotenv.Load()
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	if envDir := os.Getenv("MONADSWAP_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.monadswap)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		swapCmd,
		wrapCmd,
		balanceCmd,
		tokensCmd,
		priceCmd,
		allowanceCmd,
		approveCmd,
		statusCmd,
		serveCmd,
		walletCmd,
		configCmd,
		doctorCmd,
	)
}

// --- shared wiring ---

func newRegistry() (*token.Registry, error) {
	reg, err := token.Default()
	if err != nil {
		// A missing default token is a configuration error, fatal at startup.
		return nil, fmt.Errorf("token registry: %w", err)
	}
	return reg, nil
}

func newChainClient() *chain.Client {
	return chain.NewClient(cfg.RPCURL)
}

func newZeroexClient() (*zeroex.Client, error) {
	if cfg.ZeroExAPIKey == "" {
		return nil, fmt.Errorf("no 0x API key configured — set MONADSWAP_ZEROEX_API_KEY or run `monadswap config set zeroex_api_key <key>`")
	}
	return zeroex.NewClient(cfg.ZeroExURL, cfg.ZeroExAPIKey), nil
}

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())))
}

// resolveWallet returns the wallet for a name, address, or the default.
func resolveWallet(flag string) (*wallet.Wallet, error) {
	mgr := newWalletManager()

	if flag == "" {
		if cfg.DefaultWallet != "" {
			if w, err := mgr.Get(cfg.DefaultWallet); err == nil {
				return w, nil
			}
		}
		if w := mgr.Default(); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("no wallet specified — use --wallet <name|address> or add one:\n  monadswap wallet add myWallet --key <private-key>")
	}

	if strings.HasPrefix(flag, "0x") && len(flag) == 42 {
		return &wallet.Wallet{Name: flag, Address: flag, Type: wallet.TypeWatchOnly}, nil
	}

	w, err := mgr.Get(flag)
	if err != nil {
		return nil, fmt.Errorf("wallet %q not found — run `monadswap wallet list`, or pass an address directly", flag)
	}
	return w, nil
}

// newSender builds a transaction sender for a signing wallet.
func newSender(w *wallet.Wallet) (*chain.Sender, *wallet.Signer, error) {
	if w.Type != wallet.TypeSigning {
		return nil, nil, fmt.Errorf("wallet %q cannot sign — add one with a key:\n  monadswap wallet add %s --key <private-key>", w.Name, w.Name)
	}
	signer := wallet.NewSigner(w, newWalletManager().Keystore())
	sender := chain.NewSender(newChainClient(), signer, big.NewInt(config.ChainID))
	return sender, signer, nil
}

// resolveToken accepts a symbol or an address.
func resolveToken(reg *token.Registry, s string) (*token.Token, error) {
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		return reg.ByAddress(s)
	}
	return reg.BySymbol(s)
}
