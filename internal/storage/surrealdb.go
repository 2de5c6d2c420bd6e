package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDBStorage implements internal/retrieval.Store (and a handful of
// operational helpers) against a remote SurrealDB instance.
type SurrealDBStorage struct {
	db     *surrealdb.DB
	config *ConnectionConfig
}

// NewSurrealDBStorage constructs a SurrealDBStorage, filling in the same
// defaults the teacher's factory used.
func NewSurrealDBStorage(config *ConnectionConfig) *SurrealDBStorage {
	if config.Namespace == "" {
		config.Namespace = "amp"
	}
	if config.Database == "" {
		config.Database = "amp"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &SurrealDBStorage{config: config}
}

// NewSurrealDBStorageFromEnv builds a SurrealDBStorage from the
// SURREALDB_URL/SURREALDB_USER/SURREALDB_PASS/SURREALDB_NAMESPACE/
// SURREALDB_DATABASE environment variables, mirroring the rest of this
// codebase's env-driven construction helpers.
func NewSurrealDBStorageFromEnv() *SurrealDBStorage {
	namespace := os.Getenv("SURREALDB_NAMESPACE")
	if namespace == "" {
		namespace = "amp"
	}
	database := os.Getenv("SURREALDB_DATABASE")
	if database == "" {
		database = "amp"
	}
	return NewSurrealDBStorage(&ConnectionConfig{
		URL:       os.Getenv("SURREALDB_URL"),
		Username:  os.Getenv("SURREALDB_USER"),
		Password:  os.Getenv("SURREALDB_PASS"),
		Namespace: namespace,
		Database:  database,
		Timeout:   30 * time.Second,
	})
}

// Connect establishes the remote connection, signs in if credentials are
// present, and selects the configured namespace/database.
func (s *SurrealDBStorage) Connect(ctx context.Context) error {
	if s.config.URL == "" {
		return fmt.Errorf("storage: SURREALDB_URL must be configured")
	}

	slog.Info("connecting to SurrealDB", "url", s.config.URL)
	db, err := surrealdb.New(s.config.URL)
	if err != nil {
		return fmt.Errorf("storage: connect to surrealdb: %w", err)
	}
	s.db = db

	if s.config.Username != "" && s.config.Password != "" {
		_, err = s.db.SignIn(map[string]interface{}{
			"user": s.config.Username,
			"pass": s.config.Password,
		})
		if err != nil {
			return fmt.Errorf("storage: authenticate with surrealdb: %w", err)
		}
	}

	if err := s.db.Use(s.config.Namespace, s.config.Database); err != nil {
		return fmt.Errorf("storage: select namespace/database: %w", err)
	}

	slog.Info("connected to SurrealDB", "namespace", s.config.Namespace, "database", s.config.Database)
	return nil
}

// Close releases the underlying connection.
func (s *SurrealDBStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the connection is still usable.
func (s *SurrealDBStorage) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("storage: connection not established")
	}
	_, err := surrealdb.Query[[]map[string]interface{}](ctx, s.db, "SELECT 1", nil)
	return err
}

// GetStats implements StatsProvider by counting the object and edge
// population, exposed by an operational tool rather than by the retrieval
// engine itself.
func (s *SurrealDBStorage) GetStats(ctx context.Context) (*Stats, error) {
	stmts := []string{"SELECT count() AS c FROM objects GROUP ALL;"}
	for _, rel := range relationEdgeTables {
		stmts = append(stmts, fmt.Sprintf("SELECT count() AS c FROM %s GROUP ALL;", edgeTableName(rel)))
	}

	result, err := s.query(ctx, strings.Join(stmts, " "), nil)
	if err != nil {
		return nil, fmt.Errorf("storage: get stats: %w", err)
	}
	if result == nil || len(*result) == 0 {
		return &Stats{}, nil
	}

	stats := &Stats{}
	if len((*result)[0].Result) > 0 {
		stats.ObjectCount = int(getFloat64((*result)[0].Result[0], "c"))
	}
	for _, qr := range (*result)[1:] {
		if len(qr.Result) > 0 {
			stats.EdgeCount += int(getFloat64(qr.Result[0], "c"))
		}
	}
	return stats, nil
}
