package main

import (
	"fmt"
	"os"

	"github.com/nao1215/seaward/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seaward.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seaward <url>",
		Short: "Crawl a website for links or for a word",
		Long: `seaward is a crawler which searches for links or a specified word in a website.

Without --word every link that belongs to the site is printed once, in the
order it was found. With --word the text of every visited page is searched
for the word (case insensitive, whole words only) and the matching
fragments are printed below the page URL.

Links are followed on the seed host and its subdomains. With --strict only
pages below the seed path are followed.

Examples:
  # List the links of a site
  seaward https://example.com

  # Search a word, following links at most two levels deep
  seaward https://example.com --word rust -d 2

  # Find a good timeout with 5 requests before crawling
  seaward https://example.com --warmup 5

  # Crawl through a local Tor daemon and write JSON lines
  seaward http://exampleonion.onion -x 127.0.0.1:9050 -f json`,
		Args:          cobra.ExactArgs(1),
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Crawl flags
	cmd.Flags().StringP("word", "w", "",
		"Case insensitive word to search (default: list links)")
	cmd.Flags().IntP("depth", "d", config.DefaultDepth,
		"How many times a link is followed; 0 searches only the seed (default: unbounded)")
	cmd.Flags().BoolP("strict", "s", false,
		"Only follow links below the seed path")
	cmd.Flags().String("user-agent", "",
		"User-Agent header (default: a desktop browser)")

	// Timeout flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Request timeout")
	cmd.Flags().Int("warmup", 0,
		"Number of requests made to find the timeout automatically (overrides --timeout)")
	cmd.Flags().String("warmup-strategy", config.DefaultWarmupStrategy,
		"How warm-up timings are combined: max or average")

	// Connection flags
	cmd.Flags().StringP("proxy", "x", "",
		"SOCKS5 proxy address, e.g. 127.0.0.1:9050 for a local Tor daemon")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seaward.yaml in current, XDG config or home directory)")

	// Output flags
	cmd.Flags().StringP("format", "f", string(config.FormatText),
		"Output format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write results to the specified file path (creates directories if needed)")
	cmd.Flags().Bool("silent", false,
		"Display results only")
	cmd.Flags().Bool("no-color", false,
		"Disable colored output")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// runRootCmd executes a crawl.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	return runCrawl(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildConfig creates a Config from the configuration file and cobra flags.
//
// Flags the user set explicitly win over the configuration file, which wins
// over the built-in defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.URL = args[0]

	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path is specified, silently continue without one.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.Apply(file.SettingsFor(cfg.Host()))
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("word") {
		cfg.WordSearch = true
		if cfg.Word, err = flags.GetString("word"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("depth") {
		if cfg.Depth, err = flags.GetInt("depth"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("strict") {
		if cfg.Strict, err = flags.GetBool("strict"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	if cfg.Warmup, err = flags.GetInt("warmup"); err != nil {
		return nil, err
	}
	if cfg.WarmupStrategy, err = flags.GetString("warmup-strategy"); err != nil {
		return nil, err
	}

	format, err := flags.GetString("format")
	if err != nil {
		return nil, err
	}
	cfg.Format = config.Format(format)

	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Silent, err = flags.GetBool("silent"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
