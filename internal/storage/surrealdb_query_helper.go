package storage

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// QueryResult mirrors one statement's result from surrealdb.Query.
type QueryResult struct {
	Status string                   `json:"status"`
	Time   string                   `json:"time,omitempty"`
	Result []map[string]interface{} `json:"result"`
}

// query executes one or more ;-separated SurrealQL statements and returns
// their per-statement results.
func (s *SurrealDBStorage) query(ctx context.Context, stmt string, params map[string]interface{}) (*[]QueryResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage: connection not established")
	}

	result, err := surrealdb.Query[[]map[string]interface{}](ctx, s.db, stmt, params)
	if err != nil {
		return nil, err
	}

	out := make([]QueryResult, 0)
	if result != nil {
		for _, qr := range *result {
			out = append(out, QueryResult{Status: qr.Status, Time: qr.Time, Result: qr.Result})
		}
	}
	return &out, nil
}
