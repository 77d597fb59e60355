package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/citegraph/internal/api"
	"github.com/persistorai/citegraph/internal/config"
	"github.com/persistorai/citegraph/internal/crawl"
	"github.com/persistorai/citegraph/internal/domain"
	"github.com/persistorai/citegraph/internal/export"
	"github.com/persistorai/citegraph/internal/models"
	"github.com/persistorai/citegraph/internal/service"
	"github.com/persistorai/citegraph/internal/ws"
)

// crawlFlags holds the crawl command's local flags. Only flags the user
// actually set override the loaded configuration.
type crawlFlags struct {
	maxNodes    int
	delay       time.Duration
	timeout     time.Duration
	output      string
	layout      string
	exportFmt   string
	fields      string
	statusAddr  string
	metricsFile string
}

func newCrawlCmd() *cobra.Command {
	var f crawlFlags

	cmd := &cobra.Command{
		Use:   "crawl [seed...]",
		Short: "Crawl the citation graph from seed papers and export it",
		Long: `Explore references and citations breadth-first from the seed papers until
the frontier is exhausted or --max-nodes papers have been fetched, then write
the discovered subgraph. Papers that cannot be fetched are skipped.

Seeds are Semantic Scholar paper IDs or prefixed IDs such as arXiv:1706.03762.
When no seeds are given, the configured seeds are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyCrawlFlags(cmd, cfg, &f, args)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			apiClient = newAPIClient(cfg)

			exp, err := export.New(cfg.Format, cfg.Layout, version)
			if err != nil {
				return err
			}

			snap, err := runCrawl(cmd.Context(), cfg, apiClient.Papers, exp, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d papers, %d edges to %s\n",
				snap.Discovered.Len(), snap.Adjacency.EdgeCount(), cfg.OutputPath)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.maxNodes, "max-nodes", "n", 150, "Maximum number of papers to discover")
	fl.DurationVar(&f.delay, "delay", 600*time.Millisecond, "Minimum spacing between API requests")
	fl.DurationVar(&f.timeout, "timeout", 15*time.Second, "Per-request timeout")
	fl.StringVarP(&f.output, "output", "o", "papers.csv", "Output file path (use - for stdout)")
	fl.StringVar(&f.layout, "layout", config.LayoutEdges, "CSV layout: edges|authors")
	fl.StringVar(&f.exportFmt, "export-format", config.FormatCSV, "Export format: csv|json")
	fl.StringVar(&f.fields, "fields", "", "Comma-separated paper fields to request (default depends on layout)")
	fl.StringVar(&f.statusAddr, "status-addr", "", "Serve /metrics, /health, /status and /ws on this address while crawling")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when the crawl ends")

	return cmd
}

func applyCrawlFlags(cmd *cobra.Command, c *config.Config, f *crawlFlags, args []string) {
	flags := cmd.Flags()
	if len(args) > 0 {
		c.Seeds = config.SplitList(strings.Join(args, ","))
	}
	if flags.Changed("max-nodes") {
		c.MaxNodes = f.maxNodes
	}
	if flags.Changed("delay") {
		c.Delay = f.delay
	}
	if flags.Changed("timeout") {
		c.Timeout = f.timeout
	}
	if flags.Changed("output") {
		c.OutputPath = f.output
	}
	if flags.Changed("layout") {
		c.Layout = f.layout
	}
	if flags.Changed("export-format") {
		c.Format = f.exportFmt
	}
	if flags.Changed("fields") {
		c.Fields = config.SplitList(f.fields)
	}
	if flags.Changed("status-addr") {
		c.StatusAddr = f.statusAddr
	}
	if flags.Changed("metrics-file") {
		c.MetricsFile = f.metricsFile
	}
}

// runCrawl executes one crawl and writes its export. The export is written
// even when no paper could be fetched. With a status address configured,
// /metrics, /health, /status and the /ws progress stream are served for the
// duration of the crawl.
func runCrawl(ctx context.Context, c *config.Config, papers service.PaperGetter, exp domain.Exporter, log *logrus.Logger) (*models.Snapshot, error) {
	var hub *ws.Hub
	if c.StatusAddr != "" {
		hub = ws.NewHub(log)
	}
	progress := service.NewProgress(publisherOrNil(hub))

	fetcher := service.NewPaperFetcher(papers, c.FieldSet(), log)
	engine := crawl.NewEngine(fetcher, log, progress.Hooks())
	svc := service.NewCrawlService(engine, log).WithProgress(progress)

	var snap *models.Snapshot
	work := func(ctx context.Context) error {
		s, err := svc.Run(ctx, c.Seeds, c.MaxNodes)
		if err != nil {
			return err
		}
		snap = s
		return export.WriteFile(c.OutputPath, exp, s)
	}

	var err error
	if hub != nil {
		router := api.NewRouter(ctx, &api.RouterDeps{
			Log:         log,
			Progress:    progress,
			Hub:         hub,
			CORSOrigins: c.CORSOrigins,
			Version:     version,
		})
		err = withStatusServer(ctx, c.StatusAddr, router, hub, log, work)
	} else {
		err = work(ctx)
	}
	if err != nil {
		return nil, err
	}

	if c.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(c.MetricsFile, prometheus.DefaultGatherer); err != nil {
			return nil, fmt.Errorf("writing metrics file: %w", err)
		}
	}

	return snap, nil
}

// publisherOrNil avoids handing Progress a typed-nil interface.
func publisherOrNil(hub *ws.Hub) service.Publisher {
	if hub == nil {
		return nil
	}
	return hub
}

// withStatusServer serves handler for as long as work runs. The listener is
// bound before work starts so an unusable address fails the command up front.
// A server failure is logged but never cancels the crawl.
func withStatusServer(ctx context.Context, addr string, handler http.Handler, hub *ws.Hub, log *logrus.Logger, work func(context.Context) error) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("status listener: %w", err)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	log.WithField("addr", ln.Addr().String()).Info("status.listening")

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("status.serve")
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			// Let stream clients see crawl.finished before closing.
			hub.Shutdown()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("status.shutdown")
			}
		}()
		return work(ctx)
	})

	return g.Wait()
}
