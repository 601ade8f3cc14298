package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bnema/vidwebp/config"
	"github.com/bnema/vidwebp/internal/adapter/converter/ffmpeg"
	"github.com/bnema/vidwebp/internal/adapter/dialog"
	sqlitestore "github.com/bnema/vidwebp/internal/adapter/storage/sqlite"
	"github.com/bnema/vidwebp/internal/domain"
	"github.com/bnema/vidwebp/internal/infrastructure/logger"
	"github.com/bnema/vidwebp/internal/port"
	"github.com/bnema/vidwebp/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what the commands share once configuration is loaded.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *sqlitestore.Store
	svc   *service.ConversionService
	out   io.Writer

	// fps is the --fps flag; zero keeps the configured value.
	fps int
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = log

	var history port.ConversionHistory
	if cfg.HistoryEnabled() {
		store, err := sqlitestore.NewStore(cfg.HistoryDB, log)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		a.store = store
		history = store
	}

	if a.fps < 0 {
		return fmt.Errorf("invalid --fps: %d", a.fps)
	}
	fps := cfg.FPS
	if a.fps > 0 {
		fps = a.fps
	}

	if a.out == nil {
		a.out = os.Stdout
	}
	conv := ffmpeg.NewConverter(cfg.FFmpegPath, cfg.FFprobePath, log)
	a.svc = service.NewConversionService(dialog.NewSelector(log), conv, conv, history, a.out, fps, log)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.log != nil {
			a.log.Warn("failed to close history", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "vidwebp [video]",
		Short: "Convert a video into a looping lossless animated WebP",
		Long: `vidwebp opens a file dialog, probes the chosen video's size with ffprobe and
encodes it with ffmpeg into <name>.webp next to the source.

Passing a path skips the dialog.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return a.svc.Run(cmd.Context(), input)
		},
	}
	root.Flags().IntVar(&a.fps, "fps", 0, fmt.Sprintf("output frame rate (default from VIDWEBP_FPS, %d)", domain.DefaultFPS))

	root.AddCommand(newHistoryCmd(a))
	return root
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversions (needs VIDWEBP_HISTORY_DB)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printHistory(a.out, list)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	return cmd
}

func printHistory(w io.Writer, list []*domain.Conversion) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No conversions recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTATUS\tSIZE\tFPS\tOUTPUT\tDETAIL")
	for _, c := range list {
		detail := domain.FormatSize(c.FileSize)
		if c.Status == domain.ConversionStatusFailed {
			detail = logger.SanitizeForLog(c.ErrorMessage)
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			c.CreatedAt.Local().Format("2006-01-02 15:04"),
			c.Status, c.Width, c.Height, c.FPS,
			logger.SanitizeForLog(c.OutputPath), detail)
	}
	return tw.Flush()
}
