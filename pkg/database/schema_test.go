package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockQuerier implements TxQuerier for schema bootstrap tests.
type mockQuerier struct {
	execFn func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func TestEnsureSchema_CreatesAllTables(t *testing.T) {
	var executed []string
	mock := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			executed = append(executed, sql)
			return pgconn.NewCommandTag("CREATE TABLE"), nil
		},
	}

	err := EnsureSchema(context.Background(), mock)
	require.NoError(t, err)

	joined := strings.Join(executed, "\n")
	for _, table := range []string{"organizations", "qr_code_sets", "registrations", "coupons"} {
		assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS "+table, "missing table %s", table)
	}

	// Integrity rules live in the schema, not just the application.
	assert.Contains(t, joined, "checkin_token TEXT NOT NULL UNIQUE")
	assert.Contains(t, joined, "max_uses IS NULL OR current_uses <= max_uses")
	assert.Contains(t, joined, "(token_status = 'used') = (checked_in_at IS NOT NULL)")
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	calls := 0
	mock := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			calls++
			assert.Contains(t, sql, "IF NOT EXISTS", "every statement must tolerate re-runs")
			return pgconn.NewCommandTag("CREATE TABLE"), nil
		},
	}

	require.NoError(t, EnsureSchema(context.Background(), mock))
	first := calls
	require.NoError(t, EnsureSchema(context.Background(), mock))
	assert.Equal(t, first*2, calls)
}

func TestEnsureSchema_PropagatesError(t *testing.T) {
	dbErr := errors.New("permission denied")
	mock := &mockQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	err := EnsureSchema(context.Background(), mock)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dbErr))
	assert.Contains(t, err.Error(), "ensure schema")
}
