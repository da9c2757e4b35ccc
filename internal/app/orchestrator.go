package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Another-Red-Fox/repodoc/internal/cache"
	"github.com/Another-Red-Fox/repodoc/internal/compiler"
	"github.com/Another-Red-Fox/repodoc/internal/config"
	"github.com/Another-Red-Fox/repodoc/internal/domain"
	"github.com/Another-Red-Fox/repodoc/internal/extractor"
	"github.com/Another-Red-Fox/repodoc/internal/fetcher"
	"github.com/Another-Red-Fox/repodoc/internal/repo"
	"github.com/Another-Red-Fox/repodoc/internal/tui"
	"github.com/Another-Red-Fox/repodoc/internal/utils"
)

// ConfirmFunc asks the user a yes/no question. Injected so tests never
// touch a terminal.
type ConfirmFunc func(title string) (bool, error)

// Orchestrator sequences the fetch-extract-stage pipeline and owns the
// destination directory lifecycle: the destination is either fully
// populated with one run's output or absent.
type Orchestrator struct {
	cfg       *config.Config
	fetcher   domain.Fetcher
	extractor domain.Extractor
	compiler  domain.Compiler
	cache     domain.Cache
	logger    *utils.Logger
	confirm   ConfirmFunc
	opts      Options
}

// Options contains options for creating an Orchestrator
type Options struct {
	Config  *config.Config
	Verbose bool
	// Force overwrites an existing destination without confirmation
	Force bool
	// Compile runs the external compiler without asking
	Compile bool
	// NoCompile skips the compiler entirely, including the prompt
	NoCompile bool
	// Interactive enables prompts; disabled in tests and scripted runs
	Interactive  bool
	EnableCache  bool
	RefreshCache bool

	// Test seams; nil selects the real implementations.
	Fetcher   domain.Fetcher
	Extractor domain.Extractor
	Compiler  domain.Compiler
	Confirm   ConfirmFunc
	Logger    *utils.Logger
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	var archiveCache domain.Cache
	if opts.EnableCache && opts.Fetcher == nil {
		c, err := cache.NewBadgerCache(cache.Options{
			Directory: utils.ExpandPath(cfg.Cache.Directory),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		archiveCache = c
	}

	fetch := opts.Fetcher
	if fetch == nil {
		fetch = fetcher.NewClient(fetcher.ClientOptions{
			Timeout:      cfg.Fetch.Timeout,
			MaxSize:      cfg.MaxArchiveBytes(),
			Retries:      cfg.Fetch.Retries,
			Cache:        archiveCache,
			EnableCache:  opts.EnableCache,
			CacheTTL:     cfg.Cache.TTL,
			RefreshCache: opts.RefreshCache,
			Logger:       logger,
		})
	}

	extract := opts.Extractor
	if extract == nil {
		extract = extractor.New(extractor.Options{
			Logger:       logger,
			ShowProgress: opts.Interactive,
		})
	}

	comp := opts.Compiler
	if comp == nil {
		comp = compiler.New(compiler.Options{
			Path:   cfg.Compiler.Path,
			Logger: logger,
		})
	}

	confirm := opts.Confirm
	if confirm == nil {
		confirm = tui.Confirm
	}

	return &Orchestrator{
		cfg:       cfg,
		fetcher:   fetch,
		extractor: extract,
		compiler:  comp,
		cache:     archiveCache,
		logger:    logger,
		confirm:   confirm,
		opts:      opts,
	}, nil
}

// Run executes one fetch-extract-stage pipeline for rawURL. All pipeline
// failures are reported through the returned error; the destination
// directory never survives a failed or empty run.
func (o *Orchestrator) Run(ctx context.Context, rawURL string) error {
	ref, err := repo.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w (expected https://github.com/owner/repo)", err)
	}

	dest, err := o.destination(*ref)
	if err != nil {
		return err
	}

	if err := o.prepareDestination(dest); err != nil {
		return err
	}

	o.logger.Info().
		Str("repo", ref.String()).
		Str("dest", dest).
		Msg("Downloading repository archive")

	result, err := o.fetcher.Fetch(ctx, *ref)
	if err != nil {
		return describeFetchError(err)
	}

	o.logger.Debug().
		Str("branch", result.Branch).
		Int("bytes", len(result.Body)).
		Bool("from_cache", result.FromCache).
		Msg("Archive retrieved")

	staged, err := o.extractor.Extract(ctx, result.Body, dest)
	if err != nil {
		// A partially populated destination must not survive.
		os.RemoveAll(dest)
		if errors.Is(err, domain.ErrNoDocuments) {
			o.logger.Warn().Msg("No Markdown files found in the repository")
			return nil
		}
		return err
	}

	absDest, absErr := filepath.Abs(dest)
	if absErr != nil {
		absDest = dest
	}

	o.logger.Info().
		Int("count", len(staged)).
		Str("dest", absDest).
		Msg("Staged Markdown files")

	if o.opts.Interactive {
		tui.PrintSuccess(os.Stdout, fmt.Sprintf(
			"Success!\n\nDownloaded %d Markdown files to:\n%s", len(staged), absDest))
	}

	return o.maybeCompile(ctx, dest)
}

// destination resolves the destination directory for a run: the configured
// override, or the sanitized repository name under the working directory.
func (o *Orchestrator) destination(ref domain.RepoRef) (string, error) {
	if o.cfg.Output.Directory != "" {
		return o.cfg.Output.Directory, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, utils.SanitizeFilename(ref.Name)), nil
}

// prepareDestination removes a pre-existing destination, asking for
// confirmation first unless force is set.
func (o *Orchestrator) prepareDestination(dest string) error {
	if _, err := os.Stat(dest); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if !o.opts.Force && !o.cfg.Output.Overwrite {
		if !o.opts.Interactive {
			return fmt.Errorf("destination %s already exists (use --force to overwrite)", dest)
		}
		ok, err := o.confirm(fmt.Sprintf("Directory %q already exists. Overwrite?", filepath.Base(dest)))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted: destination %s left untouched", dest)
		}
	}

	return os.RemoveAll(dest)
}

// maybeCompile invokes the external compiler when requested. Compiler
// failures are reported but never roll back staged files.
func (o *Orchestrator) maybeCompile(ctx context.Context, dest string) error {
	if o.opts.NoCompile {
		return nil
	}

	run := o.opts.Compile
	if !run && o.opts.Interactive {
		ok, err := o.confirm("Compile downloaded files into a single PDF with md2pdf?")
		if err != nil {
			return err
		}
		run = ok
	}
	if !run {
		return nil
	}

	result, err := o.compiler.Compile(ctx, dest)
	if err != nil {
		if errors.Is(err, domain.ErrToolNotFound) {
			o.logger.Error().Err(err).
				Msg("md2pdf executable not found; ensure the md2pdf project is in your home directory")
			return nil
		}

		var compileErr *domain.CompileError
		if errors.As(err, &compileErr) {
			o.logger.Error().Int("exit_code", compileErr.ExitCode).Msg("PDF compilation failed")
			if compileErr.Stdout != "" {
				fmt.Fprintln(os.Stderr, compileErr.Stdout)
			}
			if compileErr.Stderr != "" {
				fmt.Fprintln(os.Stderr, compileErr.Stderr)
			}
			return nil
		}
		return err
	}

	if result.SavedLine != "" {
		o.logger.Info().Msg(result.SavedLine)
	}
	if o.opts.Interactive {
		tui.PrintSuccess(os.Stdout, "Successfully compiled PDF!")
	} else {
		o.logger.Info().Msg("Successfully compiled PDF")
	}
	return nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	var errs []error
	if o.fetcher != nil {
		errs = append(errs, o.fetcher.Close())
	}
	if o.cache != nil {
		errs = append(errs, o.cache.Close())
	}
	return errors.Join(errs...)
}

// describeFetchError attaches a user-facing hint to fetch failures.
func describeFetchError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("failed to download from both %s and %s branches: %w",
			fetcher.BranchPrimary, fetcher.BranchFallback, err)
	case errors.Is(err, domain.ErrArchiveTooLarge):
		return fmt.Errorf("repository archive exceeds the configured size limit: %w", err)
	default:
		return fmt.Errorf("failed to download repository: %w", err)
	}
}
