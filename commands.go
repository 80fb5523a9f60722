package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rfielding/zfsearch/api"
	"github.com/rfielding/zfsearch/internal/checkpoint"
	"github.com/rfielding/zfsearch/internal/config"
	"github.com/rfielding/zfsearch/internal/telemetry"
	"github.com/rfielding/zfsearch/search"
)

const shutdownTimeout = 5 * time.Second

func (a *app) searchCmd() *cobra.Command {
	var (
		start       string
		limit       uint64
		resume      bool
		dir         string
		metricsAddr string
		traceOn     bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Enumerate candidate witnesses until one proves ¬(v0 = v0)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("start") {
				cfg.Search.Start = start
			}
			if f.Changed("limit") {
				cfg.Search.Limit = limit
			}
			if f.Changed("resume") {
				cfg.Search.Resume = resume
			}
			if f.Changed("checkpoint") {
				cfg.Checkpoint.Dir = dir
			}
			if f.Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if f.Changed("trace") {
				cfg.Trace.Enabled = traceOn
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runSearch(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "0", "first candidate index (decimal)")
	f.Uint64Var(&limit, "limit", 0, "number of candidates to try, 0 for no limit")
	f.BoolVar(&resume, "resume", false, "continue from the stored checkpoint")
	f.StringVar(&dir, "checkpoint", "", "checkpoint directory")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address while searching")
	f.BoolVar(&traceOn, "trace", false, "export trace spans to stderr")
	return cmd
}

func (a *app) runSearch(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	logger, err := a.logger(cfg, stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	sc, err := cfg.SearchConfig()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, cfg.TelemetryConfig(version, stderr))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("trace shutdown failed", "error", err)
		}
	}()

	opts := []search.Option{search.WithLogger(logger.Logger)}
	if cfg.Checkpoint.Dir != "" {
		cc := checkpoint.DefaultConfig(cfg.Checkpoint.Dir)
		cc.Logger = logger.Logger
		store, err := checkpoint.Open(cc)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, search.WithStore(store))
	}
	searcher := search.New(sc, opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           api.NewRouter(api.NewHandlers(logger.Logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}
		serve(gctx, g, srv, logger.Logger)
	}

	var res *search.Result
	g.Go(func() error {
		defer cancel()
		var err error
		res, err = searcher.Run(gctx)
		if errors.Is(err, context.Canceled) && res != nil {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	printResult(stdout, res)
	return nil
}

// serve runs srv in g until ctx is done.
func serve(ctx context.Context, g *errgroup.Group, srv *http.Server, logger *slog.Logger) {
	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
}

func printResult(w io.Writer, res *search.Result) {
	st := newStyles(w)
	switch res.Stop {
	case search.StopFound:
		fmt.Fprintf(w, "%s witness %s proves ¬(v0 = v0)\n\n", st.bad.Render("CONTRADICTION:"), res.Index)
		fmt.Fprint(w, res.Proof)
	case search.StopCanceled:
		fmt.Fprintf(w, "%s resume from %s\n", st.title.Render("interrupted:"), res.Next)
	default:
		fmt.Fprintf(w, "%s no proof of ¬(v0 = v0) among candidates %s..%s\n",
			st.ok.Render("consistent so far:"), res.Start, prev(res))
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, res.Report())
}

// prev is the last index tried.
func prev(res *search.Result) string {
	if res.Candidates == 0 {
		return res.Start.String()
	}
	last := new(big.Int).Sub(res.Next, big.NewInt(1))
	return last.String()
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspection API and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger, err := a.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, gctx := errgroup.WithContext(ctx)
			serve(gctx, g, &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           api.NewRouter(api.NewHandlers(logger.Logger)),
				ReadHeaderTimeout: 10 * time.Second,
			}, logger.Logger)
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func (a *app) runsCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the runs recorded in a checkpoint directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("checkpoint") {
				cfg.Checkpoint.Dir = dir
			}
			if cfg.Checkpoint.Dir == "" {
				return errors.New("no checkpoint directory; pass --checkpoint or set checkpoint.dir")
			}
			logger, err := a.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Close()

			cc := checkpoint.DefaultConfig(cfg.Checkpoint.Dir)
			cc.Logger = logger.Logger
			store, err := checkpoint.Open(cc)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			next, ok, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), runsTable(runs, next, ok))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "checkpoint", "", "checkpoint directory")
	return cmd
}

func runsTable(runs []search.RunRecord, next *big.Int, ok bool) string {
	var sb strings.Builder
	sb.WriteString("| Run | Started | Start | Next | Candidates | Stop |\n")
	sb.WriteString("|-----|---------|-------|------|------------|------|\n")
	for _, r := range runs {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d | %s |\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Start, r.Next, r.Candidates, r.Stop)
	}
	if ok {
		fmt.Fprintf(&sb, "\nNext index: %s\n", next)
	}
	return sb.String()
}
