package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pathways-sync/internal/config"
	"pathways-sync/internal/pathways"
	"pathways-sync/internal/providers"
	"pathways-sync/internal/sftpclient"
)

// app is the state shared by every command of one invocation.
type app struct {
	logger *log.Logger
	out    io.Writer
	cfg    config.Config

	cfgFile  string
	logLevel string
	dryRun   bool
	upload   bool
}

func newRootCmd(logger *log.Logger, out io.Writer) *cobra.Command {
	a := &app{logger: logger, out: out}

	root := &cobra.Command{
		Use:   "pathways <input.json> <output.csv>",
		Short: "Append new pathway courses to a course catalog CSV",
		Long: `Reads a Path Finder topics export, flattens its pathway groups into course rows
(course_id, career, course_code) and appends the rows whose course id is not
already in the catalog. Running it twice with the same export changes nothing.

Inputs ending in .br are read as brotli-compressed JSON.`,
		Args:              cobra.ExactArgs(2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.merge(cmd.Context(), providers.File{Path: args[0]}, args[1])
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (env vars override it)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL or info)")
	root.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "report what would be appended without writing")
	root.PersistentFlags().BoolVar(&a.upload, "sftp", false, "upload the catalog via SFTP after merging")

	root.AddCommand(newFetchCmd(a), newLookupCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.logger.SetLevel(lvl)
	a.logger = a.logger.With("run", uuid.NewString()[:8])
	return nil
}

func (a *app) merge(ctx context.Context, src providers.PathwaySource, output string) error {
	start := time.Now()

	res, err := pathways.Merge(ctx, src, output, pathways.Options{DryRun: a.dryRun})
	if err != nil {
		return err
	}

	a.logger.Info("merged pathways",
		"source", res.Source,
		"catalog", output,
		"known", res.Known,
		"seen", res.Seen,
		"skipped", res.Skipped,
		"added", len(res.Added),
		"dry_run", a.dryRun,
		"took", time.Since(start),
	)
	for _, rec := range res.Added {
		a.logger.Debug("new course", "course_id", rec.CourseID, "code", rec.CourseCode)
	}

	if !a.upload {
		return nil
	}
	if a.dryRun {
		a.logger.Warn("dry run: skipping sftp upload")
		return nil
	}
	return a.uploadCatalog(ctx, output)
}

func (a *app) uploadCatalog(ctx context.Context, path string) error {
	upCfg := sftpclient.Config{
		Host:                  a.cfg.SFTPHost,
		Port:                  a.cfg.SFTPPort,
		User:                  a.cfg.SFTPUser,
		Pass:                  a.cfg.SFTPPass,
		RemoteDir:             a.cfg.SFTPDir,
		KnownHosts:            a.cfg.SFTPKnownHosts,
		InsecureIgnoreHostKey: a.cfg.SFTPInsecureIgnoreHostKey,
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	remoteName := filepath.Base(path)
	if err := sftpclient.UploadFile(ctx, upCfg, path, remoteName); err != nil {
		return err
	}
	a.logger.Info("uploaded catalog", "to", fmt.Sprintf("sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName))
	return nil
}
