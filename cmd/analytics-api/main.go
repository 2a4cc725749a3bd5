package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/brewgator/lightning-node-analytics/internal/analytics"
	"github.com/brewgator/lightning-node-analytics/internal/db"
	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

type Server struct {
	db       *db.Database
	lnd      *lnd.Client
	router   *mux.Router
	mockMode bool
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func main() {
	var (
		dbPath   = flag.String("db", "data/analytics.db", "Path to SQLite database")
		port     = flag.String("port", "8080", "Port to serve on")
		host     = flag.String("host", "127.0.0.1", "Host to serve on")
		mockMode = flag.Bool("mock", false, "Serve mock data without LND")
	)
	flag.Parse()

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

	server := &Server{
		db:       database,
		lnd:      lndClient,
		router:   mux.NewRouter(),
		mockMode: *mockMode,
	}

	server.setupRoutes()

	origins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	handler := c.Handler(server.router)

	addr := fmt.Sprintf("%s:%s", *host, *port)
	fmt.Printf("🚀 Node Analytics API starting on http://%s\n", addr)
	fmt.Printf("📊 Database: %s\n", *dbPath)

	log.Fatal(http.ListenAndServe(addr, handler))
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Live analysis endpoints
	api.HandleFunc("/balance", s.handleBalance).Methods("GET")
	api.HandleFunc("/htlc-risk", s.handleHtlcRisk).Methods("GET")
	api.HandleFunc("/forwarding", s.handleForwarding).Methods("GET")
	api.HandleFunc("/dust/forwards", s.handleDustForwards).Methods("GET")
	api.HandleFunc("/dust/utxos", s.handleDustUtxos).Methods("GET")
	api.HandleFunc("/peers", s.handlePeers).Methods("GET")
	api.HandleFunc("/rebalance", s.handleRebalance).Methods("GET")
	api.HandleFunc("/fees", s.handleFees).Methods("GET")

	// Archived history endpoints
	api.HandleFunc("/peers/{pubkey}", s.handlePeerHistory).Methods("GET")
	api.HandleFunc("/history/balance", s.handleBalanceHistory).Methods("GET")
	api.HandleFunc("/history/fees", s.handleFeeHistory).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// getChannels serves the channel snapshot the analysis endpoints share,
// from mock data or the node.
func (s *Server) getChannels(ctx context.Context) ([]lnd.Channel, error) {
	if s.mockMode {
		return mockChannels(), nil
	}
	return s.lnd.FetchChannels(ctx)
}

func (s *Server) getEvents(ctx context.Context, period string) ([]lnd.ForwardingEvent, int64, int64, error) {
	start, end := analytics.ResolveWindow(period, 0, 0, time.Now())
	if s.mockMode {
		return mockForwardingEvents(start, end), start, end, nil
	}
	events, err := analytics.CollectForwardingEvents(ctx, s.lnd.ForwardingPage, start, end, analytics.DefaultPageSize)
	return events, start, end, err
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	channels, err := s.getChannels(r.Context())
	if err != nil {
		log.Printf("handleBalance: failed to get channels: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to get channels")
		return
	}

	threshold := queryInt64(r, "threshold", analytics.DefaultBalanceThresholdPct)
	s.writeJSON(w, APIResponse{Success: true, Data: analytics.AnalyzeBalances(channels, threshold)})
}

func (s *Server) handleHtlcRisk(w http.ResponseWriter, r *http.Request) {
	channels, err := s.getChannels(r.Context())
	if err != nil {
		log.Printf("handleHtlcRisk: failed to get channels: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to get channels")
		return
	}

	dust := queryInt64(r, "dust", analytics.DefaultDustThreshold)
	warn := int(queryInt64(r, "warn", analytics.DefaultHtlcWarnThreshold))
	s.writeJSON(w, APIResponse{Success: true, Data: analytics.AnalyzeHtlcRisk(channels, dust, warn)})
}

func (s *Server) handleForwarding(w http.ResponseWriter, r *http.Request) {
	events, start, end, err := s.getEvents(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		log.Printf("handleForwarding: failed to collect events: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to collect forwarding history")
		return
	}

	s.writeJSON(w, APIResponse{Success: true, Data: analytics.SummarizeForwarding(events, start, end)})
}

func (s *Server) handleDustForwards(w http.ResponseWriter, r *http.Request) {
	events, _, _, err := s.getEvents(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		log.Printf("handleDustForwards: failed to collect events: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to collect forwarding history")
		return
	}

	threshold := queryInt64(r, "threshold", analytics.DefaultDustThreshold)
	rate := int(queryInt64(r, "rate", 50))
	s.writeJSON(w, APIResponse{Success: true, Data: analytics.DetectDustForwards(events, threshold, rate)})
}

func (s *Server) handleDustUtxos(w http.ResponseWriter, r *http.Request) {
	var utxos []lnd.UTXO
	var err error
	if s.mockMode {
		utxos = mockUtxos()
	} else {
		utxos, err = s.lnd.FetchUtxos(r.Context(), queryInt64(r, "min_confs", 1))
	}
	if err != nil {
		log.Printf("handleDustUtxos: failed to list UTXOs: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to list UTXOs")
		return
	}

	threshold := queryInt64(r, "threshold", analytics.DefaultDustThreshold)
	s.writeJSON(w, APIResponse{Success: true, Data: analytics.AnalyzeDustUtxos(utxos, threshold)})
}

func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channels, err := s.getChannels(ctx)
	if err != nil {
		log.Printf("handlePeers: failed to get channels: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to get channels")
		return
	}

	events, start, end, err := s.getEvents(ctx, r.URL.Query().Get("period"))
	if err != nil {
		log.Printf("handlePeers: failed to collect events: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to collect forwarding history")
		return
	}

	s.writeJSON(w, APIResponse{Success: true, Data: analytics.ScorePeers(channels, events, start, end)})
}

func (s *Server) handlePeerHistory(w http.ResponseWriter, r *http.Request) {
	pubkey := mux.Vars(r)["pubkey"]
	if !lnd.IsValidPubkey(pubkey) {
		s.writeError(w, http.StatusBadRequest, "Invalid node pubkey")
		return
	}

	days := int(queryInt64(r, "days", 30))
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	history, err := s.db.GetPeerScoreHistory(pubkey, from, to)
	if err != nil {
		log.Printf("handlePeerHistory: failed to get score history: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to get score history")
		return
	}

	s.writeJSON(w, APIResponse{Success: true, Data: history})
}

func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	channels, err := s.getChannels(r.Context())
	if err != nil {
		log.Printf("handleRebalance: failed to get channels: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to get channels")
		return
	}

	target := queryInt64(r, "target", analytics.DefaultRebalanceTargetPct)
	deviation := queryInt64(r, "deviation", analytics.DefaultRebalanceMinDeviation)
	s.writeJSON(w, APIResponse{Success: true, Data: analytics.PlanRebalance(channels, target, deviation)})
}

func (s *Server) handleFees(w http.ResponseWriter, r *http.Request) {
	channels, err := s.getChannels(r.Context())
	if err != nil {
		log.Printf("handleFees: failed to get channels: %v", err)
		s.writeError(w, http.StatusBadGateway, "Failed to get channels")
		return
	}

	s.writeJSON(w, APIResponse{Success: true, Data: analytics.SuggestFees(channels, analytics.DefaultFeeConfig())})
}

func (s *Server) handleBalanceHistory(w http.ResponseWriter, r *http.Request) {
	days := int(queryInt64(r, "days", 30))
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	reports, err := s.db.GetBalanceReports(from, to)
	if err != nil {
		log.Printf("handleBalanceHistory: failed to get balance reports: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to get balance history")
		return
	}

	s.writeJSON(w, APIResponse{Success: true, Data: reports})
}

func (s *Server) handleFeeHistory(w http.ResponseWriter, r *http.Request) {
	days := int(queryInt64(r, "days", 30))
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	daily, err := s.db.GetDailyFees(from, to)
	if err != nil {
		log.Printf("handleFeeHistory: failed to get daily fees: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to get fee history")
		return
	}

	s.writeJSON(w, APIResponse{Success: true, Data: daily})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"mock_mode": s.mockMode,
			"timestamp": time.Now(),
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error:   message,
	}); err != nil {
		log.Printf("Failed to encode error response (status %d, message %q): %v", status, message, err)
	}
}
