package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brewgator/lightning-node-analytics/internal/analytics"
	"github.com/brewgator/lightning-node-analytics/internal/db"
	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

type Config struct {
	DatabasePath       string
	CollectionInterval time.Duration
	Period             string
	BalanceThreshold   int64
}

type Collector struct {
	config   *Config
	db       *db.Database
	lnd      *lnd.Client
	mockMode bool
}

func main() {
	var (
		dbPath    = flag.String("db", "data/analytics.db", "Path to SQLite database")
		interval  = flag.Duration("interval", 15*time.Minute, "Collection interval")
		period    = flag.String("period", "24h", "Forwarding window per collection: 1h, 24h, 7d or 30d")
		threshold = flag.Int64("threshold", analytics.DefaultBalanceThresholdPct, "Imbalance threshold percent")
		oneshot   = flag.Bool("oneshot", false, "Run once and exit (for testing)")
		mockMode  = flag.Bool("mock", false, "Use mock data for testing without LND")
	)
	flag.Parse()

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	database, err := db.NewDatabaseWithMockMode(*dbPath, *mockMode)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	var lndClient *lnd.Client
	if *mockMode {
		fmt.Println("⚠️  Running in mock mode - using test data")
	} else {
		lndClient, err = lnd.NewClient()
		if err != nil {
			log.Fatalf("Failed to initialize LND client: %v (try --mock for testing)", err)
		}
		defer lndClient.Close()
	}

	collector := &Collector{
		config: &Config{
			DatabasePath:       *dbPath,
			CollectionInterval: *interval,
			Period:             *period,
			BalanceThreshold:   *threshold,
		},
		db:       database,
		lnd:      lndClient,
		mockMode: *mockMode,
	}

	if *oneshot {
		fmt.Println("Running report collection once...")
		if err := collector.collectReports(); err != nil {
			log.Fatalf("Report collection failed: %v", err)
		}
		fmt.Println("Report collection completed successfully")
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(collector.config.CollectionInterval)
	defer ticker.Stop()

	fmt.Printf("Starting report collection every %v...\n", collector.config.CollectionInterval)

	if err := collector.collectReports(); err != nil {
		log.Printf("Initial report collection failed: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := collector.collectReports(); err != nil {
				log.Printf("Report collection failed: %v", err)
			}
		case <-sigChan:
			fmt.Println("Received shutdown signal, exiting...")
			return
		}
	}
}

func (c *Collector) collectReports() error {
	timestamp := time.Now()
	ctx := context.Background()

	fmt.Printf("[%s] Collecting node reports...\n", timestamp.Format("2006-01-02 15:04:05"))

	channels, err := c.fetchChannels(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channels: %w", err)
	}

	events, start, end, err := c.fetchEvents(ctx, timestamp)
	if err != nil {
		// Forwarding history is not load-bearing for the balance report
		log.Printf("Warning: failed to collect forwarding history: %v", err)
		events = nil
	}

	balanceReport := analytics.AnalyzeBalances(channels, c.config.BalanceThreshold)
	if err := c.db.InsertBalanceReport(timestamp, &balanceReport); err != nil {
		return fmt.Errorf("failed to archive balance report: %w", err)
	}

	summary := analytics.SummarizeForwarding(events, start, end)
	if err := c.db.InsertForwardingSummary(timestamp, &summary); err != nil {
		return fmt.Errorf("failed to archive forwarding summary: %w", err)
	}

	scores := analytics.ScorePeers(channels, events, start, end)
	if err := c.db.InsertPeerScores(timestamp, &scores); err != nil {
		return fmt.Errorf("failed to archive peer scores: %w", err)
	}

	fmt.Printf("✅ Reports saved: %d channels (%d imbalanced), %d forwards, %d peers scored\n",
		len(balanceReport.Channels), balanceReport.ImbalancedCount,
		summary.TotalEvents, len(scores.Peers))

	return nil
}

func (c *Collector) fetchChannels(ctx context.Context) ([]lnd.Channel, error) {
	if c.mockMode {
		return mockChannels(), nil
	}
	return c.lnd.FetchChannels(ctx)
}

func (c *Collector) fetchEvents(ctx context.Context, now time.Time) ([]lnd.ForwardingEvent, int64, int64, error) {
	start, end := analytics.ResolveWindow(c.config.Period, 0, 0, now)
	if c.mockMode {
		return mockForwardingEvents(start, end), start, end, nil
	}
	events, err := analytics.CollectForwardingEvents(ctx, c.lnd.ForwardingPage, start, end, analytics.DefaultPageSize)
	return events, start, end, err
}

func mockChannels() []lnd.Channel {
	return []lnd.Channel{
		{
			ChanID:        "850572598231367681",
			RemotePubkey:  "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
			Capacity:      5000000,
			LocalBalance:  2400000,
			RemoteBalance: 2600000,
			Active:        true,
			Uptime:        86000,
			Lifetime:      86400,
		},
		{
			ChanID:        "850572598231367682",
			RemotePubkey:  "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5",
			Capacity:      2000000,
			LocalBalance:  150000,
			RemoteBalance: 1850000,
			Active:        true,
			Uptime:        80000,
			Lifetime:      86400,
		},
	}
}

func mockForwardingEvents(start, end int64) []lnd.ForwardingEvent {
	span := end - start
	return []lnd.ForwardingEvent{
		{ChanIDIn: "850572598231367681", ChanIDOut: "850572598231367682", AmtIn: 100100, AmtOut: 100000, Fee: 100, Timestamp: start + span/4},
		{ChanIDIn: "850572598231367682", ChanIDOut: "850572598231367681", AmtIn: 50050, AmtOut: 50000, Fee: 50, Timestamp: start + span/2},
	}
}
