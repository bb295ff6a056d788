package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"eztestbot/models"
)

// DatabaseChannelBinding represents the raw channel_bindings database record
type DatabaseChannelBinding struct {
	ID           string    `json:"id"            db:"id"`
	ChannelID    string    `json:"channel_id"    db:"channel_id"`
	TeamID       string    `json:"team_id"       db:"team_id"`
	ProjectID    string    `json:"project_id"    db:"project_id"`
	ConfiguredBy string    `json:"configured_by" db:"configured_by"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}

// ToChannelBinding converts a DatabaseChannelBinding to the domain model
func (db *DatabaseChannelBinding) ToChannelBinding() *models.ChannelBinding {
	return &models.ChannelBinding{
		ID:           db.ID,
		ChannelID:    db.ChannelID,
		TeamID:       db.TeamID,
		ProjectID:    db.ProjectID,
		ConfiguredBy: db.ConfiguredBy,
		CreatedAt:    db.CreatedAt,
		UpdatedAt:    db.UpdatedAt,
	}
}

type PostgresChannelBindingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for channel_bindings table
var channelBindingsColumns = []string{
	"id",
	"channel_id",
	"team_id",
	"project_id",
	"configured_by",
	"created_at",
	"updated_at",
}

func NewPostgresChannelBindingsRepository(db *sqlx.DB, schema string) *PostgresChannelBindingsRepository {
	return &PostgresChannelBindingsRepository{db: db, schema: schema}
}

// UpsertChannelBinding inserts a binding or, when the channel is already
// bound, replaces its project. channel_id is unique so a channel maps to at
// most one project at a time.
func (r *PostgresChannelBindingsRepository) UpsertChannelBinding(
	ctx context.Context,
	binding *DatabaseChannelBinding,
) error {
	columnsStr := strings.Join(channelBindingsColumns, ", ")
	returningStr := strings.Join(channelBindingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.channel_bindings (%s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (channel_id)
		DO UPDATE SET
			team_id = EXCLUDED.team_id,
			project_id = EXCLUDED.project_id,
			configured_by = EXCLUDED.configured_by,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := r.db.QueryRowxContext(ctx, query,
		binding.ID,
		binding.ChannelID,
		binding.TeamID,
		binding.ProjectID,
		binding.ConfiguredBy).
		StructScan(binding)
	if err != nil {
		return fmt.Errorf("failed to upsert channel binding: %w", err)
	}

	return nil
}

func (r *PostgresChannelBindingsRepository) GetChannelBindingByChannelID(
	ctx context.Context,
	channelID string,
) (mo.Option[*DatabaseChannelBinding], error) {
	columnsStr := strings.Join(channelBindingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.channel_bindings
		WHERE channel_id = $1`,
		columnsStr, r.schema)

	binding := &DatabaseChannelBinding{}
	err := r.db.GetContext(ctx, binding, query, channelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*DatabaseChannelBinding](), nil
		}
		return mo.None[*DatabaseChannelBinding](), fmt.Errorf("failed to get channel binding: %w", err)
	}

	return mo.Some(binding), nil
}

func (r *PostgresChannelBindingsRepository) ListChannelBindings(
	ctx context.Context,
) ([]*DatabaseChannelBinding, error) {
	columnsStr := strings.Join(channelBindingsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.channel_bindings
		ORDER BY created_at DESC`,
		columnsStr, r.schema)

	var bindings []*DatabaseChannelBinding
	if err := r.db.SelectContext(ctx, &bindings, query); err != nil {
		return nil, fmt.Errorf("failed to list channel bindings: %w", err)
	}

	return bindings, nil
}

// DeleteChannelBindingByChannelID removes a binding and reports whether a row
// actually existed.
func (r *PostgresChannelBindingsRepository) DeleteChannelBindingByChannelID(
	ctx context.Context,
	channelID string,
) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.channel_bindings
		WHERE channel_id = $1`, r.schema)

	result, err := r.db.ExecContext(ctx, query, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete channel binding: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}
