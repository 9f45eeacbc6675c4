package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/LFKoning/git-scan/internal/buildinfo"
	"github.com/LFKoning/git-scan/internal/git"
	"github.com/LFKoning/git-scan/internal/report"
	"github.com/LFKoning/git-scan/internal/scan"
	"github.com/LFKoning/git-scan/internal/watch"
)

func Run() error {
	return run(os.Args[1:], os.Stdout)
}

type config struct {
	repoPath   string
	output     string
	extensions []string
	native     bool
	watch      bool
	verbose    bool
}

func run(args []string, stdout io.Writer) error {
	cfg, done, err := parseArgs(args, stdout)
	if err != nil || done {
		return err
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := scanOnce(store, cfg); err != nil {
		return err
	}
	if !cfg.watch {
		return nil
	}
	return watchLoop(store, cfg)
}

func parseArgs(args []string, stdout io.Writer) (config, bool, error) {
	fs := flag.NewFlagSet("git-scan", flag.ContinueOnError)
	output := fs.String("output", "scan-results.csv", "output CSV file name")
	extensions := fs.String("extensions", strings.Join(scan.DefaultExtensions, ","),
		"comma-separated list of data file extensions")
	native := fs.Bool("native", false, "read the object store with go-git instead of the git executable")
	watchMode := fs.Bool("watch", false, "keep running and rescan when the repository changes")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return config{}, true, nil
		}
		return config{}, false, err
	}
	if *showVersion {
		fmt.Fprintln(stdout, buildinfo.Version())
		return config{}, true, nil
	}
	repoPath := "."
	if remaining := fs.Args(); len(remaining) > 0 {
		repoPath = remaining[len(remaining)-1]
	}
	return config{
		repoPath:   repoPath,
		output:     *output,
		extensions: splitExtensions(*extensions),
		native:     *native,
		watch:      *watchMode,
		verbose:    *verbose,
	}, false, nil
}

func splitExtensions(raw string) []string {
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			exts = append(exts, part)
		}
	}
	return exts
}

func openStore(cfg config) (git.Store, error) {
	if cfg.native {
		return git.OpenGoGit(cfg.repoPath)
	}
	return git.OpenCLI(cfg.repoPath)
}

func scanOnce(store git.Store, cfg config) error {
	slog.Info("starting repository scan", slog.String("repo", store.RepoPath()))
	result, err := scan.New(store, scan.NewExtensionSet(cfg.extensions...)).Run()
	if err != nil {
		return err
	}
	return writeReport(cfg.output, result)
}

func writeReport(path string, result scan.Result) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteCSV(out, result); err != nil {
		return errors.Join(fmt.Errorf("write report: %w", err), out.Close())
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	slog.Info("report written", slog.String("output", path))
	return nil
}

func watchLoop(store git.Store, cfg config) error {
	w, err := watch.New(store.RepoPath(), func() {
		if err := scanOnce(store, cfg); err != nil {
			slog.Error("rescan failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Error("watcher close", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	slog.Info("watching repository for changes", slog.String("repo", store.RepoPath()))
	<-stop
	return nil
}
