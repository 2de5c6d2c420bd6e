package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// decodeResult decodes the first statement's rows from a query response into
// a typed slice. Used by every read path in this package instead of hand
// field-walking raw maps.
func decodeResult[T any](result *[]QueryResult) ([]T, error) {
	if result == nil || len(*result) == 0 {
		return nil, nil
	}

	queryResult := (*result)[0]
	if queryResult.Status != "OK" {
		return nil, fmt.Errorf("query failed: %s", queryResult.Status)
	}
	if len(queryResult.Result) == 0 {
		return nil, nil
	}

	processed := normalizeSurrealDBDatetimes(queryResult.Result)

	jsonData, err := json.Marshal(processed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var items []T
	if err := json.Unmarshal(jsonData, &items); err != nil {
		slog.Error("decodeResult: unmarshal failed", "error", err)
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return items, nil
}

// normalizeSurrealDBDatetimes recursively rewrites SurrealDB's polymorphic
// datetime ({"Datetime": "..."} / {"Time": "..."}) and tagged record-id
// ({"id": "x", "tb": "table"} / {"ID": "x", "Table": "table"}) shapes into
// plain ISO8601 strings and "table:id" strings respectively, so the rest of
// this package can unmarshal into ordinary Go structs. This is the single
// workaround point for the projection-through-JSON quirk every read path
// here depends on.
func normalizeSurrealDBDatetimes(data interface{}) interface{} {
	dataType := fmt.Sprintf("%T", data)
	if strings.Contains(dataType, "RecordID") {
		val := reflect.ValueOf(data)
		if val.Kind() == reflect.Struct {
			typ := val.Type()
			var tableField, idField reflect.Value
			for i := 0; i < val.NumField(); i++ {
				switch typ.Field(i).Name {
				case "Table":
					tableField = val.Field(i)
				case "ID":
					idField = val.Field(i)
				}
			}
			if tableField.IsValid() && idField.IsValid() {
				return fmt.Sprintf("%v", tableField.Interface()) + ":" + fmt.Sprintf("%v", idField.Interface())
			}
		}
	}

	switch v := data.(type) {
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = normalizeSurrealDBDatetimes(item)
		}
		return result
	case []map[string]interface{}:
		result := make([]map[string]interface{}, len(v))
		for i, item := range v {
			if m, ok := normalizeSurrealDBDatetimes(item).(map[string]interface{}); ok {
				result[i] = m
			} else {
				result[i] = item
			}
		}
		return result
	case map[string]interface{}:
		if datetime, ok := v["Datetime"]; ok && len(v) == 1 {
			if dtStr, ok := datetime.(string); ok {
				return dtStr
			}
		}
		if timeVal, ok := v["Time"]; ok && len(v) == 1 {
			if dtStr, ok := timeVal.(string); ok {
				return dtStr
			}
		}
		if id, hasID := v["id"]; hasID {
			if tb, hasTB := v["tb"]; hasTB && len(v) == 2 {
				if idStr, ok := id.(string); ok {
					if tbStr, ok := tb.(string); ok {
						return tbStr + ":" + idStr
					}
				}
			}
		}
		if id, hasID := v["ID"]; hasID {
			if tb, hasTB := v["Table"]; hasTB && len(v) == 2 {
				if idStr, ok := id.(string); ok {
					if tbStr, ok := tb.(string); ok {
						return tbStr + ":" + idStr
					}
				}
			}
		}
		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			result[key] = normalizeSurrealDBDatetimes(val)
		}
		return result
	default:
		return data
	}
}

// extractRecordID extracts a "table:id" string from any of the surface forms
// the store's driver hands back for a record id field.
func extractRecordID(id interface{}) string {
	if id == nil {
		return ""
	}
	if str, ok := id.(string); ok {
		return str
	}
	if idMap, ok := id.(map[string]interface{}); ok {
		if table, hasTable := idMap["Table"]; hasTable {
			if tableStr, ok := table.(string); ok {
				if recordID, hasID := idMap["ID"]; hasID {
					if idStr, ok := recordID.(string); ok {
						return tableStr + ":" + idStr
					}
				}
			}
		}
	}
	idStr := fmt.Sprintf("%v", id)
	if strings.HasPrefix(idStr, "{") && strings.Contains(idStr, " ") && strings.HasSuffix(idStr, "}") {
		inner := idStr[1 : len(idStr)-1]
		parts := strings.SplitN(inner, " ", 2)
		if len(parts) == 2 {
			return parts[0] + ":" + parts[1]
		}
	}
	return idStr
}

func getFloat64(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	}
	return 0
}

// convertEmbeddingToFloat64 normalizes an embedding to the fixed MTREE
// dimension (padding with zeros or truncating) and widens it to float64,
// the numeric type the store's vector index expects.
func convertEmbeddingToFloat64(embedding []float32) []float64 {
	if embedding == nil {
		embedding = make([]float32, defaultMtreeDim)
	} else if len(embedding) != defaultMtreeDim {
		norm := make([]float32, defaultMtreeDim)
		copy(norm, embedding)
		embedding = norm
	}
	out := make([]float64, len(embedding))
	for i, v := range embedding {
		out[i] = float64(v)
	}
	return out
}
