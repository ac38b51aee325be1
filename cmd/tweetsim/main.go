package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/tweetsim"
	"github.com/bft-labs/tweetsim/internal/cliconfig"
	"github.com/bft-labs/tweetsim/internal/watch"
	"github.com/bft-labs/tweetsim/pkg/log"
)

const longHelp = `
Generate snapshot batches of simulated tweets for testing deletion detection.

Each run writes batch1.json .. batchN.json into the output directory. A tweet's
text says whether it is ever deleted ("deleted k / N" or "not deleted k / N"):
  - not deleted tweets stay in every batch after the one that introduced them,
  - deleted tweets are present in a contiguous run of batches, then gone for good.

Configure via flags, TWEETSIM_* environment variables (optionally from a .env
file) or a TOML/YAML config file, in that order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  tweetsim --batches 4 --deleted 3 --output-dir ./batches
  tweetsim --config ./tweetsim.toml --seed 42 --watch
  tweetsim verify --dir ./batches
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		log.NewZerologAdapter(os.Stderr, "info").Error("tweetsim", log.Err(err))
		cancel()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Logs go to stderr.
func newRootCmd(stderr io.Writer) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var (
		cfgPath   string
		envFile   string
		watchMode bool
	)

	root := &cobra.Command{
		Use:           "tweetsim",
		Short:         "Generate tweet batches with known deletions",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, changed, err := prepare(cmd, envFile, cfgPath)
			if err != nil {
				return err
			}

			// cfg holds defaults and flag values; every load starts from it
			// so a reload in watch mode sees the file afresh.
			load := func() (cliconfig.Config, error) {
				c := cfg
				err := cliconfig.Load(&c, cfgFile, changed)
				return c, err
			}

			c, err := load()
			if err != nil {
				return err
			}
			logger := log.NewZerologAdapter(stderr, c.LogLevel)

			ctx := cmd.Context()
			if err := generate(ctx, c, logger); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}
			if cfgFile == "" {
				return fmt.Errorf("--watch needs a config file")
			}

			w := watch.NewConfigWatcher(cfgFile, func(ctx context.Context) {
				c, err := load()
				if err != nil {
					logger.Error("reload config", log.Err(err))
					return
				}
				if err := generate(ctx, c, logger); err != nil {
					logger.Error("regenerate batches", log.Err(err))
				}
			}, watch.WithLogger(logger))
			return w.Run(ctx)
		},
	}

	// Flags
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file, .toml or .yaml (default: $HOME/.tweetsim/config.toml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with TWEETSIM_* variables (skipped when missing)")

	root.Flags().StringVar(&cfg.UserID, "user-id", cfg.UserID, "author id (default: random UUID)")
	root.Flags().StringVar(&cfg.UserName, "user-name", cfg.UserName, "author display name")
	root.Flags().StringVar(&cfg.UserScreenName, "user-screen-name", cfg.UserScreenName, "author screen name")

	root.Flags().IntVarP(&cfg.NumBatches, "batches", "n", cfg.NumBatches, "number of batches to write (at least 2)")
	root.Flags().IntVarP(&cfg.NumDeletedTweets, "deleted", "d", cfg.NumDeletedTweets, "number of tweets deleted at some point")
	root.Flags().IntVar(&cfg.MinNewPerBatch, "min-new", cfg.MinNewPerBatch, "minimum new non-deleted tweets per batch")
	root.Flags().IntVar(&cfg.MaxNewPerBatch, "max-new", cfg.MaxNewPerBatch, "maximum new non-deleted tweets per batch")

	root.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "existing directory to write batch files into")
	root.Flags().BoolVar(&cfg.CreateOutputDir, "create-dir", cfg.CreateOutputDir, "create the output directory if missing")
	root.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for a reproducible run (0: seed from clock)")
	root.Flags().BoolVar(&cfg.Verify, "verify", cfg.Verify, "check the batches against the ground truth rules before writing")
	root.Flags().BoolVar(&watchMode, "watch", false, "keep running and regenerate when the config file changes")

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(newVerifyCmd(stderr, &cfg, &envFile, &cfgPath))
	return root
}

// prepare loads the dotenv file and returns the config file path along with
// the set of flags given on the command line.
func prepare(cmd *cobra.Command, envFile, cfgPath string) (string, map[string]bool, error) {
	if err := cliconfig.LoadDotEnv(envFile); err != nil {
		return "", nil, fmt.Errorf("load env file: %w", err)
	}

	// Config file defaults to $HOME/.tweetsim/config.toml
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return cfgFile, changed, nil
}

func newVerifyCmd(stderr io.Writer, cfg *cliconfig.Config, envFile, cfgPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a directory of batches against the ground truth rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, changed, err := prepare(cmd, *envFile, *cfgPath)
			if err != nil {
				return err
			}
			// Only the log level applies here; the generation settings are
			// not validated.
			c := *cfg
			if err := cliconfig.Layer(&c, cfgFile, changed); err != nil {
				return err
			}
			if err := c.ValidateLogLevel(); err != nil {
				return err
			}
			logger := log.NewZerologAdapter(stderr, c.LogLevel)

			report, err := tweetsim.Verify(cmd.Context(), dir)
			if err != nil {
				return err
			}
			for id, d := range report.Intervals {
				logger.Debug("deleted tweet",
					log.String("id", id),
					log.Int("appeared_in_batch", d.AppearedIn+1),
					log.Int("deleted_from_batch", d.DeletedFrom+1),
				)
			}
			logger.Info("batches verified",
				log.String("dir", dir),
				log.Int("batches", report.NumBatches),
				log.Int("non_deleted", report.NonDeleted),
				log.Int("deleted", report.Deleted),
				log.String("screen_name", report.Author.ScreenName),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "./batches", "directory holding batch<N>.json files")
	return cmd
}

func generate(ctx context.Context, c cliconfig.Config, logger log.Logger) error {
	logger.Debug("configuration", log.Any("config", c))

	opts := []tweetsim.Option{
		tweetsim.WithSeed(c.Seed),
		tweetsim.WithLogger(logger),
		tweetsim.WithVerify(c.Verify),
	}
	if c.CreateOutputDir {
		opts = append(opts, tweetsim.WithCreateDir())
	}

	res, err := tweetsim.Simulate(ctx, c.Params(), c.OutputDir, opts...)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	for k, d := range res.Deletions {
		logger.Debug("deletion planned",
			log.Int("seq", k+1),
			log.Int("appeared_in_batch", d.AppearedIn+1),
			log.Int("deleted_from_batch", d.DeletedFrom+1),
		)
	}
	logger.Info("generated batches",
		log.String("dir", c.OutputDir),
		log.Int("batches", len(res.Batches)),
		log.Int("non_deleted", res.NonDeletedTotal),
		log.Int("deleted", res.DeletedTotal),
	)
	return nil
}
