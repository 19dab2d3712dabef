package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/platform/logger"
	"github.com/slidesmith/slidesmith-api/internal/store"
)

// SowStore implements the store.SowStore interface using a PostgreSQL
// database as the storage backend. Slide sequences are stored as JSONB.
type SowStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSowStore creates a new PostgreSQL implementation of the SowStore
// interface.
func NewSowStore(db store.DBTX, log *slog.Logger) *SowStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &SowStore{
		db:     db,
		logger: log.With(slog.String("component", "sow_store")),
	}
}

var _ store.SowStore = (*SowStore)(nil)

// Create implements store.SowStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *SowStore) Create(ctx context.Context, sow *domain.Sow) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sow.Validate(); err != nil {
		log.Warn("sow validation failed during create",
			slog.String("error", err.Error()),
			slog.String("sow_id", sow.ID.String()))
		return err
	}

	slides, err := json.Marshal(sow.Slides)
	if err != nil {
		return fmt.Errorf("failed to marshal slides: %w", err)
	}

	query := `
		INSERT INTO sows (id, user_id, title, sow_number, client_name, slides, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		sow.ID,
		sow.UserID,
		sow.Title,
		sow.SowNumber,
		sow.ClientName,
		slides,
		sow.CreatedAt,
		sow.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during sow creation",
				slog.String("sow_id", sow.ID.String()),
				slog.String("user_id", sow.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, sow.UserID)
		}
		log.Error("failed to create sow",
			slog.String("error", err.Error()),
			slog.String("sow_id", sow.ID.String()))
		return err
	}

	log.Info("sow created successfully",
		slog.String("sow_id", sow.ID.String()),
		slog.String("user_id", sow.UserID.String()))
	return nil
}

// GetByID implements store.SowStore.GetByID
// Returns store.ErrSowNotFound if no matching sow exists for the user.
func (s *SowStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Sow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, sow_number, client_name, slides, created_at, updated_at
		FROM sows
		WHERE id = $1 AND user_id = $2
	`

	sow, err := scanSow(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("sow not found",
				slog.String("sow_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrSowNotFound
		}
		log.Error("failed to get sow by ID",
			slog.String("error", err.Error()),
			slog.String("sow_id", id.String()))
		return nil, err
	}

	return sow, nil
}

// ListByUser implements store.SowStore.ListByUser
// Returns an empty slice when the user has no sows.
func (s *SowStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Sow, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, sow_number, client_name, slides, created_at, updated_at
		FROM sows
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list sows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	sows := []*domain.Sow{}
	for rows.Next() {
		sow, err := scanSow(rows)
		if err != nil {
			log.Error("failed to scan sow row",
				slog.String("error", err.Error()))
			return nil, err
		}
		sows = append(sows, sow)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed sows",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(sows)))
	return sows, nil
}

// Update implements store.SowStore.Update
// Returns store.ErrSowNotFound if no matching sow exists for the user.
func (s *SowStore) Update(ctx context.Context, sow *domain.Sow) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sow.Validate(); err != nil {
		log.Warn("sow validation failed during update",
			slog.String("error", err.Error()),
			slog.String("sow_id", sow.ID.String()))
		return err
	}

	slides, err := json.Marshal(sow.Slides)
	if err != nil {
		return fmt.Errorf("failed to marshal slides: %w", err)
	}

	sow.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE sows
		SET title = $1, sow_number = $2, client_name = $3, slides = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		sow.Title,
		sow.SowNumber,
		sow.ClientName,
		slides,
		sow.UpdatedAt,
		sow.ID,
		sow.UserID,
	)

	if err != nil {
		log.Error("failed to update sow",
			slog.String("error", err.Error()),
			slog.String("sow_id", sow.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("sow not found for update",
			slog.String("sow_id", sow.ID.String()))
		return store.ErrSowNotFound
	}

	log.Info("sow updated successfully",
		slog.String("sow_id", sow.ID.String()))
	return nil
}

// Delete implements store.SowStore.Delete
// Returns store.ErrSowNotFound if no matching sow exists for the user.
func (s *SowStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM sows WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete sow",
			slog.String("error", err.Error()),
			slog.String("sow_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("sow not found for delete",
			slog.String("sow_id", id.String()))
		return store.ErrSowNotFound
	}

	log.Info("sow deleted successfully",
		slog.String("sow_id", id.String()))
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSow(row rowScanner) (*domain.Sow, error) {
	var sow domain.Sow
	var slides []byte

	err := row.Scan(
		&sow.ID,
		&sow.UserID,
		&sow.Title,
		&sow.SowNumber,
		&sow.ClientName,
		&slides,
		&sow.CreatedAt,
		&sow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(slides, &sow.Slides); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slides: %w", err)
	}
	return &sow, nil
}
