package postgresdb

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// StringCursorConfig holds configuration for string-based cursor pagination.
type StringCursorConfig struct {
	Cursor     string
	OrderField string
	PKField    string
	Direction  string
	Limit      int
}

// cursorPayload is the decoded shape of a string cursor: base64 JSON of the
// last row's order value and primary key.
type cursorPayload[O any] struct {
	OrderValue O      `json:"order_value"`
	PK         string `json:"pk"`
}

// EncodeStringCursor builds the opaque cursor for a row.
func EncodeStringCursor[O any](orderValue O, pk string) (string, error) {
	data, err := json.Marshal(cursorPayload[O]{OrderValue: orderValue, PK: pk})
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

func decodeStringCursor[O any](encoded string) (*cursorPayload[O], error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	var result cursorPayload[O]
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal json: %w", err)
	}

	return &result, nil
}

// ApplyStringCursorPagination adds the cursor WHERE condition for an opaque
// string cursor. No-op when the cursor is empty.
func ApplyStringCursorPagination[O any](buf *bytes.Buffer, data pgx.NamedArgs, cfg StringCursorConfig) error {
	if cfg.Cursor == "" {
		return nil
	}

	decoded, err := decodeStringCursor[O](cfg.Cursor)
	if err != nil {
		return fmt.Errorf("decode cursor: %w", err)
	}

	quotedOrder, err := QuoteIdentifier(cfg.OrderField)
	if err != nil {
		return fmt.Errorf("invalid order field: %w", err)
	}
	quotedPK, err := QuoteIdentifier(cfg.PKField)
	if err != nil {
		return fmt.Errorf("invalid pk field: %w", err)
	}

	if strings.Contains(buf.String(), "WHERE") {
		buf.WriteString(" AND ")
	} else {
		buf.WriteString(" WHERE ")
	}

	operator := ">"
	if cfg.Direction == DESC {
		operator = "<"
	}

	// Tuple comparison keeps ordering stable across equal order values,
	// e.g. ("created_at", "task_id") < (@cursor_order_value, @cursor_pk).
	fmt.Fprintf(buf, "(%s, %s) %s (@cursor_order_value, @cursor_pk)", quotedOrder, quotedPK, operator)

	data["cursor_order_value"] = decoded.OrderValue
	data["cursor_pk"] = decoded.PK

	return nil
}

// AddOrderByClause adds the ORDER BY clause, with the primary key as a
// secondary sort for a total order.
func AddOrderByClause(buf *bytes.Buffer, orderField, pkField, direction string) error {
	quotedOrder, err := QuoteIdentifier(orderField)
	if err != nil {
		return fmt.Errorf("invalid order field name: %w", err)
	}
	quotedPK, err := QuoteIdentifier(pkField)
	if err != nil {
		return fmt.Errorf("invalid pk field name: %w", err)
	}

	if direction != ASC && direction != DESC {
		direction = ASC
	}

	fmt.Fprintf(buf, " ORDER BY %s %s", quotedOrder, direction)
	if orderField != pkField {
		fmt.Fprintf(buf, ", %s %s", quotedPK, direction)
	}

	return nil
}

// AddLimitClause adds the LIMIT clause.
func AddLimitClause(limit int, data pgx.NamedArgs, buf *bytes.Buffer) {
	buf.WriteString(" LIMIT @limit")
	data["limit"] = limit
}
