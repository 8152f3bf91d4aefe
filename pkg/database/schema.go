package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schemaStatements creates every table this service owns. All statements are
// IF NOT EXISTS so the bootstrap can run on every startup and in seeding
// paths without coordination.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS qr_code_sets (
		id UUID PRIMARY KEY,
		organization_id UUID NOT NULL REFERENCES organizations(id),
		event_name TEXT NOT NULL,
		entry_points TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id UUID PRIMARY KEY,
		qr_code_set_id UUID NOT NULL REFERENCES qr_code_sets(id),
		entry_point_id TEXT NOT NULL,
		form_data JSONB NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL,
		delivery_status TEXT NOT NULL DEFAULT 'pending',
		checkin_token TEXT NOT NULL UNIQUE,
		token_status TEXT NOT NULL DEFAULT 'active',
		checked_in_at TIMESTAMPTZ,
		checked_in_by TEXT,
		CONSTRAINT checkin_fields_paired CHECK (
			(token_status = 'used') = (checked_in_at IS NOT NULL)
		)
	)`,
	`CREATE TABLE IF NOT EXISTS coupons (
		code TEXT PRIMARY KEY,
		discount_type TEXT NOT NULL,
		discount_value NUMERIC(12,1) NOT NULL,
		currency CHAR(3) NOT NULL DEFAULT 'USD',
		max_discount BIGINT,
		max_uses INTEGER,
		current_uses INTEGER NOT NULL DEFAULT 0,
		expires_at TIMESTAMPTZ,
		applicable_plans TEXT[],
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT use_counter_within_limit CHECK (
			max_uses IS NULL OR current_uses <= max_uses
		)
	)`,
}

// EnsureSchema idempotently creates the service's tables. It runs at startup
// before any request is served.
func EnsureSchema(ctx context.Context, q TxQuerier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log.Info().Msg("database schema ensured")
	return nil
}
