package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Another-Red-Fox/repodoc/internal/app"
	"github.com/Another-Red-Fox/repodoc/internal/compiler"
	"github.com/Another-Red-Fox/repodoc/internal/config"
	"github.com/Another-Red-Fox/repodoc/internal/tui"
	"github.com/Another-Red-Fox/repodoc/internal/utils"
	"github.com/Another-Red-Fox/repodoc/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependency for testing
	osStat = os.Stat
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "repodoc [url]",
	Short: "Download a GitHub repository's Markdown documentation",
	Long: `repodoc downloads all Markdown files from a GitHub repository into a
local directory, flattening the repository tree while keeping colliding
filenames distinguishable.

Optionally, the downloaded files can be compiled into a single PDF with
the external md2pdf tool.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.repodoc/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Destination directory (default: ./<repo-name>)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Overwrite an existing destination without asking")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.PersistentFlags().Bool("compile", false, "Compile downloaded files to PDF without asking")
	rootCmd.PersistentFlags().Bool("no-compile", false, "Never run the PDF compiler")
	rootCmd.PersistentFlags().Bool("no-input", false, "Disable interactive prompts")

	rootCmd.PersistentFlags().Duration("timeout", config.DefaultFetchTimeout, "Download timeout")
	rootCmd.PersistentFlags().Int("retries", config.DefaultRetries, "Extra download attempts on transient errors")
	rootCmd.PersistentFlags().String("max-size", config.DefaultMaxArchiveSize, "Maximum archive size (e.g. 100MB)")

	rootCmd.PersistentFlags().Bool("cache", false, "Cache downloaded archives")
	rootCmd.PersistentFlags().Duration("cache-ttl", config.DefaultCacheTTL, "Cache TTL")
	rootCmd.PersistentFlags().Bool("refresh-cache", false, "Force cache refresh")

	_ = viper.BindPFlag("output.directory", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("output.overwrite", rootCmd.PersistentFlags().Lookup("force"))
	_ = viper.BindPFlag("fetch.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("fetch.retries", rootCmd.PersistentFlags().Lookup("retries"))
	_ = viper.BindPFlag("fetch.max_archive_size", rootCmd.PersistentFlags().Lookup("max-size"))
	_ = viper.BindPFlag("cache.enabled", rootCmd.PersistentFlags().Lookup("cache"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	noInput, _ := cmd.Flags().GetBool("no-input")
	interactive := !noInput

	if interactive {
		tui.PrintBanner(os.Stdout)
	}

	url := ""
	if len(args) > 0 {
		url = args[0]
	} else {
		if !interactive {
			return cmd.Help()
		}
		url, err = tui.PromptURL()
		if err != nil {
			return err
		}
		if url == "" {
			return cmd.Help()
		}
	}

	// An explicit -o wins; otherwise the orchestrator derives the
	// destination from the repository name.
	if cmd.Flags().Changed("output") {
		cfg.Output.Directory, _ = cmd.Flags().GetString("output")
	} else {
		cfg.Output.Directory = ""
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	force, _ := cmd.Flags().GetBool("force")
	compile, _ := cmd.Flags().GetBool("compile")
	noCompile, _ := cmd.Flags().GetBool("no-compile")
	enableCache, _ := cmd.Flags().GetBool("cache")
	refreshCache, _ := cmd.Flags().GetBool("refresh-cache")

	orchestrator, err := app.NewOrchestrator(app.Options{
		Config:       cfg,
		Verbose:      verbose,
		Force:        force,
		Compile:      compile,
		NoCompile:    noCompile,
		Interactive:  interactive,
		EnableCache:  enableCache || cfg.Cache.Enabled,
		RefreshCache: refreshCache,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	// Pipeline failures are reported, not propagated: the process always
	// terminates normally once the run has been attempted.
	if err := orchestrator.Run(ctx, url); err != nil {
		log.Error().Err(err).Msg("Run failed")
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render(err.Error()))
	}
	return nil
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that all system dependencies are properly installed and configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking system dependencies...")
		allPassed := true

		// Check 1: Internet connection
		fmt.Print("  Internet connection: ")
		if checkInternet() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		// Check 2: md2pdf tool
		fmt.Print("  md2pdf tool: ")
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}
		comp := compiler.New(compiler.Options{Path: cfg.Compiler.Path})
		if comp.Available() {
			fmt.Printf("OK (%s)\n", comp.Path())
		} else {
			fmt.Println("NOT FOUND (PDF compilation will be unavailable)")
		}

		// Check 3: Write permissions for the working directory
		fmt.Print("  Write permissions: ")
		if checkWritePermissions() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		// Check 4: Config file
		fmt.Print("  Config file: ")
		if _, err := config.Load(); err != nil {
			fmt.Printf("WARN (%v)\n", err)
		} else {
			fmt.Println("OK")
		}

		// Check 5: Cache directory
		fmt.Print("  Cache directory: ")
		cacheDir := utils.ExpandPath(config.CacheDir())
		if checkCacheDir(cacheDir) {
			fmt.Printf("OK (%s)\n", cacheDir)
		} else {
			fmt.Println("WARN (will be created on first use)")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All critical checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkInternet checks if there's an internet connection
func checkInternet() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://github.com", nil)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	tmpFile := ".repodoc_test_write"
	f, err := os.Create(tmpFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmpFile)
	return true
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(path string) bool {
	info, err := osStat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault()
		if err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
