package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brewgator/lightning-node-analytics/internal/analytics"
	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		showHelp()
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "balance", "bal":
		runBalance(args)
	case "htlc-risk", "htlc":
		runHtlcRisk(args)
	case "forwarding", "fwd":
		runForwarding(args)
	case "dust":
		runDustForwards(args)
	case "utxos":
		runDustUtxos(args)
	case "peers":
		runPeers(args)
	case "rebalance", "reb":
		runRebalance(args)
	case "fees":
		runFees(args)
	case "help", "-h", "--help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		showHelp()
	}
}

func showHelp() {
	fmt.Println("Node Analyzer - Lightning Routing Node Analytics")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  node-analyzer balance     Channel liquidity report")
	fmt.Println("  node-analyzer htlc-risk   Pending HTLC risk report")
	fmt.Println("  node-analyzer forwarding  Forwarding revenue summary")
	fmt.Println("  node-analyzer dust        Dust forward detection")
	fmt.Println("  node-analyzer utxos       Wallet dust UTXO report")
	fmt.Println("  node-analyzer peers       Peer quality scores")
	fmt.Println("  node-analyzer rebalance   Rebalance suggestions")
	fmt.Println("  node-analyzer fees        Fee tier suggestions")
	fmt.Println("  node-analyzer help        Show this help message")
	fmt.Println("")
	fmt.Println("Run a command with -h to see its options.")
	fmt.Println("")
}

func newClient() *lnd.Client {
	client, err := lnd.NewClient()
	if err != nil {
		log.Fatalf("Failed to connect to LND: %v", err)
	}
	return client
}

func printJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

func collectEvents(ctx context.Context, source lnd.ForwardingSource, period string) ([]lnd.ForwardingEvent, int64, int64) {
	start, end := analytics.ResolveWindow(period, 0, 0, time.Now())
	events, err := analytics.CollectForwardingEvents(ctx, source.ForwardingPage, start, end, analytics.DefaultPageSize)
	if err != nil {
		log.Fatalf("Failed to collect forwarding history: %v", err)
	}
	return events, start, end
}

func runBalance(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	threshold := fs.Int64("threshold", analytics.DefaultBalanceThresholdPct, "Imbalance threshold percent")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	channels, err := client.FetchChannels(context.Background())
	if err != nil {
		log.Fatalf("Failed to get channels: %v", err)
	}

	report := analytics.AnalyzeBalances(channels, *threshold)
	if *asJSON {
		printJSON(report)
		return
	}

	fmt.Println("\n🔋 Channel Liquidity Report")
	fmt.Println(strings.Repeat("━", 80))

	for _, ch := range report.Channels {
		marker := "🟢"
		switch ch.Status {
		case analytics.StatusDepletedLocal:
			marker = "🔻"
		case analytics.StatusDepletedRemote:
			marker = "🔺"
		}
		fmt.Printf("%s %s  local %s / %s (%d%%)  uptime %d%%  %s\n",
			marker, ch.ChanID,
			utils.FormatSats(ch.LocalBalance), utils.FormatSats(ch.Capacity),
			ch.LocalRatioPct, ch.UptimePct, ch.Status)
	}

	fmt.Println(strings.Repeat("━", 80))
	fmt.Printf("📊 %d balanced, %d need rebalancing\n\n", report.BalancedCount, report.ImbalancedCount)
}

func runHtlcRisk(args []string) {
	fs := flag.NewFlagSet("htlc-risk", flag.ExitOnError)
	dust := fs.Int64("dust", analytics.DefaultDustThreshold, "Dust threshold in sats")
	warn := fs.Int("warn", analytics.DefaultHtlcWarnThreshold, "Pending HTLC warning threshold")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	channels, err := client.FetchChannels(context.Background())
	if err != nil {
		log.Fatalf("Failed to get channels: %v", err)
	}

	report := analytics.AnalyzeHtlcRisk(channels, *dust, *warn)
	if *asJSON {
		printJSON(report)
		return
	}

	fmt.Println("\n⚡ Pending HTLC Risk Report")
	fmt.Println(strings.Repeat("━", 80))

	for _, ch := range report.Channels {
		if ch.PendingCount == 0 {
			continue
		}
		marker := "🟢"
		switch ch.Risk {
		case analytics.RiskWarning:
			marker = "🟡"
		case analytics.RiskCritical:
			marker = "🔴"
		case analytics.RiskDustAttack:
			marker = "🚨"
		}
		fmt.Printf("%s %s  %d pending (%d dust)  slots %d%% used  %s\n",
			marker, ch.ChanID, ch.PendingCount, ch.DustCount, ch.UtilizationPct, ch.Risk)
	}

	fmt.Println(strings.Repeat("━", 80))
	fmt.Printf("📊 %d pending HTLCs total, %d dust\n", report.TotalPending, report.TotalDust)
	fmt.Printf("⚠️  %s\n\n", report.Alert)
}

func runForwarding(args []string) {
	fs := flag.NewFlagSet("forwarding", flag.ExitOnError)
	period := fs.String("period", "24h", "Window: 1h, 24h, 7d or 30d")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	events, start, end := collectEvents(context.Background(), client, *period)
	summary := analytics.SummarizeForwarding(events, start, end)
	if *asJSON {
		printJSON(summary)
		return
	}

	fmt.Printf("\n💸 Forwarding Summary (%s)\n", *period)
	fmt.Println(strings.Repeat("━", 80))

	for _, ch := range summary.Channels {
		fmt.Printf("   %s  in %d/%s  out %d/%s  earned %s\n",
			ch.ChanID,
			ch.InboundCount, utils.FormatSats(ch.InboundAmount),
			ch.OutboundCount, utils.FormatSats(ch.OutboundAmount),
			utils.FormatSats(ch.FeeEarned))
	}

	fmt.Println(strings.Repeat("━", 80))
	fmt.Printf("📊 %d forwards, %s routed, %s earned\n\n",
		summary.TotalEvents, utils.FormatSats(summary.TotalAmountOut), utils.FormatSats(summary.TotalFee))
}

func runDustForwards(args []string) {
	fs := flag.NewFlagSet("dust", flag.ExitOnError)
	period := fs.String("period", "24h", "Window: 1h, 24h, 7d or 30d")
	threshold := fs.Int64("threshold", analytics.DefaultDustThreshold, "Dust threshold in sats")
	rate := fs.Int("rate", 50, "Dust count per route that flags it suspicious")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	events, _, _ := collectEvents(context.Background(), client, *period)
	report := analytics.DetectDustForwards(events, *threshold, *rate)
	if *asJSON {
		printJSON(report)
		return
	}

	fmt.Printf("\n🔍 Dust Forward Report (%s, threshold %d sats)\n", *period, report.DustThreshold)
	fmt.Println(strings.Repeat("━", 80))
	fmt.Printf("   %d dust forwards (fees %s), %d normal (fees %s)\n",
		report.DustCount, utils.FormatSats(report.DustFees),
		report.NormalCount, utils.FormatSats(report.NormalFees))

	for _, route := range report.Routes {
		marker := "  "
		if route.Suspicious {
			marker = "🚨"
		}
		fmt.Printf("%s %s → %s  %d forwards, %d-%d sats each\n",
			marker, route.ChanIDIn, route.ChanIDOut, route.Count, route.MinAmount, route.MaxAmount)
	}

	if report.FeeEfficiencyWarning != "" {
		fmt.Printf("⚠️  %s\n", report.FeeEfficiencyWarning)
	}
	for _, rec := range report.Recommendations {
		fmt.Printf("💡 %s\n", rec.Reason)
	}
	fmt.Println()
}

func runDustUtxos(args []string) {
	fs := flag.NewFlagSet("utxos", flag.ExitOnError)
	threshold := fs.Int64("threshold", analytics.DefaultDustThreshold, "Dust threshold in sats")
	minConfs := fs.Int64("min-confs", 1, "Minimum confirmations")
	freeze := fs.Bool("freeze", false, "Lease detected dust UTXOs")
	expiry := fs.Int64("expiry", 3600, "Lease expiry in seconds when freezing")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	ctx := context.Background()
	utxos, err := client.FetchUtxos(ctx, *minConfs)
	if err != nil {
		log.Fatalf("Failed to list UTXOs: %v", err)
	}

	report := analytics.AnalyzeDustUtxos(utxos, *threshold)
	if *freeze && report.DustCount > 0 {
		report.FrozenResults = analytics.FreezeDustUtxos(ctx, client, report.DustUtxos, *expiry)
	}

	if *asJSON {
		printJSON(report)
		return
	}

	fmt.Printf("\n🧹 Wallet Dust Report (threshold %d sats)\n", report.DustThreshold)
	fmt.Println(strings.Repeat("━", 80))
	for _, utxo := range report.DustUtxos {
		fmt.Printf("   %s  %d sats  %d confs\n", utxo.Outpoint(), utxo.Amount, utxo.Confirmations)
	}
	fmt.Printf("📊 %s (%d normal UTXOs hold %s)\n",
		report.Alert, report.NormalCount, utils.FormatSats(report.NormalTotal))

	for _, result := range report.FrozenResults {
		if result.Status == analytics.FreezeOK {
			fmt.Printf("❄️  Frozen %s until %d\n", result.Outpoint, result.Expiration)
		} else {
			fmt.Printf("❌ Failed to freeze %s: %s\n", result.Outpoint, result.Error)
		}
	}
	fmt.Println()
}

func runPeers(args []string) {
	fs := flag.NewFlagSet("peers", flag.ExitOnError)
	period := fs.String("period", "7d", "Window: 1h, 24h, 7d or 30d")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	ctx := context.Background()
	channels, err := client.FetchChannels(ctx)
	if err != nil {
		log.Fatalf("Failed to get channels: %v", err)
	}
	events, start, end := collectEvents(ctx, client, *period)

	report := analytics.ScorePeers(channels, events, start, end)
	if *asJSON {
		printJSON(report)
		return
	}

	fmt.Printf("\n🏆 Peer Scores (%s)\n", *period)
	fmt.Println(strings.Repeat("━", 80))

	for rank, peer := range report.Peers {
		pubkey := peer.Pubkey
		if len(pubkey) > 20 {
			pubkey = pubkey[:20] + "..."
		}
		fmt.Printf("%2d. %s  score %d  (%d chans, %s cap, %s earned, %d fwds, uptime %d%%)\n",
			rank+1, pubkey, peer.Score,
			peer.ChannelCount, utils.FormatSats(peer.TotalCapacity),
			utils.FormatSats(peer.Revenue), peer.ForwardCount, peer.AvgUptimePct)
	}
	fmt.Println()
}

func runRebalance(args []string) {
	fs := flag.NewFlagSet("rebalance", flag.ExitOnError)
	target := fs.Int64("target", analytics.DefaultRebalanceTargetPct, "Target local balance percent")
	deviation := fs.Int64("deviation", analytics.DefaultRebalanceMinDeviation, "Minimum deviation percent to act on")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	channels, err := client.FetchChannels(context.Background())
	if err != nil {
		log.Fatalf("Failed to get channels: %v", err)
	}

	plan := analytics.PlanRebalance(channels, *target, *deviation)
	if *asJSON {
		printJSON(plan)
		return
	}

	fmt.Printf("\n⚖️  Rebalance Plan (target %d%%, min deviation %d%%)\n", plan.TargetPct, plan.MinDeviationPct)
	fmt.Println(strings.Repeat("━", 80))

	if len(plan.Pairs) == 0 {
		fmt.Println("✅ No rebalancing needed")
	}
	for _, pair := range plan.Pairs {
		fmt.Printf("   %s → %s  move %s\n",
			pair.FromChanID, pair.ToChanID, utils.FormatSats(pair.Amount))
	}
	fmt.Printf("📊 %d sources, %d sinks, %d pairs\n\n",
		len(plan.Sources), len(plan.Sinks), len(plan.Pairs))
}

func runFees(args []string) {
	fs := flag.NewFlagSet("fees", flag.ExitOnError)
	apply := fs.Bool("apply", false, "Apply the suggested policies via lncli")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	fs.Parse(args)

	client := newClient()
	defer client.Close()

	ctx := context.Background()
	channels, err := client.FetchChannels(ctx)
	if err != nil {
		log.Fatalf("Failed to get channels: %v", err)
	}

	set := analytics.SuggestFees(channels, analytics.DefaultFeeConfig())

	var results []analytics.FeeApplyResult
	if *apply {
		results = analytics.ApplyFeeSuggestions(ctx, client, set)
	}

	if *asJSON {
		printJSON(map[string]interface{}{"suggestions": set, "results": results})
		return
	}

	fmt.Println("\n💰 Fee Suggestions")
	fmt.Println(strings.Repeat("━", 80))
	for _, s := range set.Suggestions {
		fmt.Printf("   %s  local %d%%  → %d ppm (%s)\n", s.ChanID, s.LocalRatioPct, s.FeeRatePpm, s.Tier)
	}
	for _, result := range results {
		if result.Status == analytics.ApplyOK {
			fmt.Printf("✅ Applied policy on %s\n", result.ChanID)
		} else {
			fmt.Printf("❌ Failed on %s: %s\n", result.ChanID, result.Error)
		}
	}
	fmt.Println()
}
