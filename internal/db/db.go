package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brewgator/lightning-node-analytics/internal/analytics"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
)

type Database struct {
	conn     *sql.DB
	mockMode bool
}

// NewDatabase creates a new database connection and initializes tables
func NewDatabase(dbPath string) (*Database, error) {
	return NewDatabaseWithMockMode(dbPath, false)
}

// NewDatabaseWithMockMode creates a new database connection with mock mode option
func NewDatabaseWithMockMode(dbPath string, mockMode bool) (*Database, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &Database{
		conn:     conn,
		mockMode: mockMode,
	}

	if err := db.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return db, nil
}

// IsMockMode returns true if the database is running in mock mode
func (db *Database) IsMockMode() bool {
	return db.mockMode
}

// getTableName returns the appropriate table name based on mock mode.
// SECURITY NOTE: baseName must ONLY be hardcoded string literals, never user input.
// The mockMode flag is an internal boolean set at database initialization.
func (db *Database) getTableName(baseName string) string {
	if db.mockMode {
		return baseName + "_mock"
	}
	return baseName
}

// GetTableName returns the appropriate table name based on mock mode (public for testing)
func (db *Database) GetTableName(baseName string) string {
	return db.getTableName(baseName)
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.conn.Close()
}

// initTables creates all required tables
func (db *Database) initTables() error {
	queries := []string{
		// Real data tables
		`CREATE TABLE IF NOT EXISTS balance_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			channel_count INTEGER NOT NULL DEFAULT 0,
			balanced_count INTEGER NOT NULL DEFAULT 0,
			imbalanced_count INTEGER NOT NULL DEFAULT 0,
			report_json TEXT NOT NULL,
			UNIQUE(timestamp)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_balance_reports_timestamp ON balance_reports(timestamp);`,

		`CREATE TABLE IF NOT EXISTS forwarding_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			window_start INTEGER NOT NULL,
			window_end INTEGER NOT NULL,
			total_events INTEGER NOT NULL DEFAULT 0,
			total_fee INTEGER NOT NULL DEFAULT 0,
			summary_json TEXT NOT NULL,
			UNIQUE(timestamp)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_forwarding_summaries_timestamp ON forwarding_summaries(timestamp);`,

		`CREATE TABLE IF NOT EXISTS peer_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			pubkey TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			revenue INTEGER NOT NULL DEFAULT 0,
			forward_count INTEGER NOT NULL DEFAULT 0,
			channel_count INTEGER NOT NULL DEFAULT 0,
			avg_uptime_pct INTEGER NOT NULL DEFAULT 0,
			UNIQUE(timestamp, pubkey)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_peer_scores_timestamp ON peer_scores(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_peer_scores_pubkey ON peer_scores(pubkey);`,

		// Mock data tables (identical structure with _mock suffix)
		`CREATE TABLE IF NOT EXISTS balance_reports_mock (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			channel_count INTEGER NOT NULL DEFAULT 0,
			balanced_count INTEGER NOT NULL DEFAULT 0,
			imbalanced_count INTEGER NOT NULL DEFAULT 0,
			report_json TEXT NOT NULL,
			UNIQUE(timestamp)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_balance_reports_mock_timestamp ON balance_reports_mock(timestamp);`,

		`CREATE TABLE IF NOT EXISTS forwarding_summaries_mock (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			window_start INTEGER NOT NULL,
			window_end INTEGER NOT NULL,
			total_events INTEGER NOT NULL DEFAULT 0,
			total_fee INTEGER NOT NULL DEFAULT 0,
			summary_json TEXT NOT NULL,
			UNIQUE(timestamp)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_forwarding_summaries_mock_timestamp ON forwarding_summaries_mock(timestamp);`,

		`CREATE TABLE IF NOT EXISTS peer_scores_mock (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			pubkey TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			revenue INTEGER NOT NULL DEFAULT 0,
			forward_count INTEGER NOT NULL DEFAULT 0,
			channel_count INTEGER NOT NULL DEFAULT 0,
			avg_uptime_pct INTEGER NOT NULL DEFAULT 0,
			UNIQUE(timestamp, pubkey)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_peer_scores_mock_timestamp ON peer_scores_mock(timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_peer_scores_mock_pubkey ON peer_scores_mock(pubkey);`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// InsertBalanceReport archives a balance report snapshot.
// If a report with the same timestamp already exists, it will be replaced.
func (db *Database) InsertBalanceReport(timestamp time.Time, report *analytics.BalanceReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	tableName := db.getTableName("balance_reports")
	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s
		(timestamp, channel_count, balanced_count, imbalanced_count, report_json)
		VALUES (?, ?, ?, ?, ?)
	`, tableName)

	_, err = db.conn.Exec(query,
		timestamp,
		len(report.Channels),
		report.BalancedCount,
		report.ImbalancedCount,
		string(reportJSON),
	)

	return err
}

// GetBalanceReports retrieves archived balance reports within a time range
func (db *Database) GetBalanceReports(from, to time.Time) ([]StoredBalanceReport, error) {
	tableName := db.getTableName("balance_reports")
	query := fmt.Sprintf(`
		SELECT id, timestamp, channel_count, balanced_count, imbalanced_count, report_json
		FROM %s
		WHERE timestamp BETWEEN ? AND ?
		ORDER BY timestamp ASC
	`, tableName)

	rows, err := db.conn.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []StoredBalanceReport
	for rows.Next() {
		var r StoredBalanceReport
		var reportJSON string
		err := rows.Scan(&r.ID, &r.Timestamp, &r.ChannelCount, &r.BalancedCount, &r.ImbalancedCount, &reportJSON)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(reportJSON), &r.Report); err != nil {
			return nil, fmt.Errorf("failed to decode report %d: %w", r.ID, err)
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// GetLatestBalanceReport retrieves the most recent archived balance report
func (db *Database) GetLatestBalanceReport() (*StoredBalanceReport, error) {
	tableName := db.getTableName("balance_reports")
	query := fmt.Sprintf(`
		SELECT id, timestamp, channel_count, balanced_count, imbalanced_count, report_json
		FROM %s
		ORDER BY timestamp DESC
		LIMIT 1
	`, tableName)

	var r StoredBalanceReport
	var reportJSON string
	err := db.conn.QueryRow(query).Scan(&r.ID, &r.Timestamp, &r.ChannelCount, &r.BalancedCount, &r.ImbalancedCount, &reportJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(reportJSON), &r.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report %d: %w", r.ID, err)
	}

	return &r, nil
}

// InsertForwardingSummary archives a forwarding summary snapshot.
// If a summary with the same timestamp already exists, it will be replaced.
func (db *Database) InsertForwardingSummary(timestamp time.Time, summary *analytics.ForwardingSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	tableName := db.getTableName("forwarding_summaries")
	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s
		(timestamp, window_start, window_end, total_events, total_fee, summary_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, tableName)

	_, err = db.conn.Exec(query,
		timestamp,
		summary.StartTime,
		summary.EndTime,
		summary.TotalEvents,
		summary.TotalFee,
		string(summaryJSON),
	)

	return err
}

// GetForwardingSummaries retrieves archived forwarding summaries within a time range
func (db *Database) GetForwardingSummaries(from, to time.Time) ([]StoredForwardingSummary, error) {
	tableName := db.getTableName("forwarding_summaries")
	query := fmt.Sprintf(`
		SELECT id, timestamp, window_start, window_end, total_events, total_fee, summary_json
		FROM %s
		WHERE timestamp BETWEEN ? AND ?
		ORDER BY timestamp ASC
	`, tableName)

	rows, err := db.conn.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []StoredForwardingSummary
	for rows.Next() {
		var s StoredForwardingSummary
		var summaryJSON string
		err := rows.Scan(&s.ID, &s.Timestamp, &s.WindowStart, &s.WindowEnd, &s.TotalEvents, &s.TotalFee, &summaryJSON)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(summaryJSON), &s.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary %d: %w", s.ID, err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetLatestForwardingSummary retrieves the most recent archived forwarding summary
func (db *Database) GetLatestForwardingSummary() (*StoredForwardingSummary, error) {
	tableName := db.getTableName("forwarding_summaries")
	query := fmt.Sprintf(`
		SELECT id, timestamp, window_start, window_end, total_events, total_fee, summary_json
		FROM %s
		ORDER BY timestamp DESC
		LIMIT 1
	`, tableName)

	var s StoredForwardingSummary
	var summaryJSON string
	err := db.conn.QueryRow(query).Scan(&s.ID, &s.Timestamp, &s.WindowStart, &s.WindowEnd, &s.TotalEvents, &s.TotalFee, &summaryJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(summaryJSON), &s.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary %d: %w", s.ID, err)
	}

	return &s, nil
}

// GetDailyFees retrieves fee data aggregated by day from archived summaries
func (db *Database) GetDailyFees(from, to time.Time) ([]DailyFeeData, error) {
	tableName := db.getTableName("forwarding_summaries")
	query := fmt.Sprintf(`
		SELECT
			DATE(timestamp) as date,
			SUM(total_fee) as total_fee,
			SUM(total_events) as forward_count
		FROM %s
		WHERE timestamp BETWEEN ? AND ?
		GROUP BY DATE(timestamp)
		ORDER BY date ASC
	`, tableName)

	rows, err := db.conn.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeData []DailyFeeData
	for rows.Next() {
		var d DailyFeeData
		err := rows.Scan(&d.Date, &d.TotalFee, &d.ForwardCount)
		if err != nil {
			return nil, err
		}
		feeData = append(feeData, d)
	}

	return feeData, rows.Err()
}

// InsertPeerScores fans a peer score report out to one row per peer so
// score history stays queryable per pubkey. Rows sharing a timestamp and
// pubkey are replaced.
func (db *Database) InsertPeerScores(timestamp time.Time, report *analytics.PeerScoreReport) error {
	tableName := db.getTableName("peer_scores")
	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s
		(timestamp, pubkey, score, revenue, forward_count, channel_count, avg_uptime_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, tableName)

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, peer := range report.Peers {
		_, err := tx.Exec(query,
			timestamp,
			peer.Pubkey,
			peer.Score,
			peer.Revenue,
			peer.ForwardCount,
			peer.ChannelCount,
			peer.AvgUptimePct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", peer.Pubkey, err)
		}
	}

	return tx.Commit()
}

// GetPeerScoreHistory retrieves score history for a specific peer
func (db *Database) GetPeerScoreHistory(pubkey string, from, to time.Time) ([]StoredPeerScore, error) {
	tableName := db.getTableName("peer_scores")
	query := fmt.Sprintf(`
		SELECT id, timestamp, pubkey, score, revenue, forward_count, channel_count, avg_uptime_pct
		FROM %s
		WHERE pubkey = ? AND timestamp BETWEEN ? AND ?
		ORDER BY timestamp ASC
	`, tableName)

	rows, err := db.conn.Query(query, pubkey, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []StoredPeerScore
	for rows.Next() {
		var s StoredPeerScore
		err := rows.Scan(&s.ID, &s.Timestamp, &s.Pubkey, &s.Score, &s.Revenue, &s.ForwardCount, &s.ChannelCount, &s.AvgUptimePct)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}

// GetLatestPeerScores retrieves every peer's row from the most recent
// collection, ranked descending by score
func (db *Database) GetLatestPeerScores() ([]StoredPeerScore, error) {
	tableName := db.getTableName("peer_scores")
	query := fmt.Sprintf(`
		SELECT id, timestamp, pubkey, score, revenue, forward_count, channel_count, avg_uptime_pct
		FROM %s
		WHERE timestamp = (SELECT MAX(timestamp) FROM %s)
		ORDER BY score DESC
	`, tableName, tableName)

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []StoredPeerScore
	for rows.Next() {
		var s StoredPeerScore
		err := rows.Scan(&s.ID, &s.Timestamp, &s.Pubkey, &s.Score, &s.Revenue, &s.ForwardCount, &s.ChannelCount, &s.AvgUptimePct)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}
