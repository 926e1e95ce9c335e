// Package sqlite provides a SQLite-backed profile store implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/tapfolio/tapfolio/internal/platform/storage/sqlitemigrate"
	"github.com/tapfolio/tapfolio/internal/services/profilestore/storage"
	"github.com/tapfolio/tapfolio/internal/services/profilestore/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists profile documents and analytics events in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite profile store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateProfile inserts one profile record with its block rows.
func (s *Store) CreateProfile(ctx context.Context, profile storage.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	profileID := strings.TrimSpace(profile.ID)
	ownerAccountID := strings.TrimSpace(profile.OwnerAccountID)
	slug := strings.TrimSpace(profile.Slug)
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}
	if ownerAccountID == "" {
		return fmt.Errorf("owner account id is required")
	}
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	createdAt := profile.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := profile.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create profile: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO profiles (
		   id, owner_account_id, slug,
		   display_name, title, company, bio,
		   avatar_url, cover_url,
		   theme_layout, theme_color,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profileID,
		ownerAccountID,
		slug,
		profile.DisplayName,
		profile.Title,
		profile.Company,
		profile.Bio,
		profile.AvatarURL,
		profile.CoverURL,
		profile.ThemeLayout,
		profile.ThemeColor,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isProfileUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	if err := insertBlocks(ctx, tx, profileID, profile.Blocks); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create profile: %w", err)
	}
	return nil
}

// GetProfileByID returns one profile with its blocks in position order.
func (s *Store) GetProfileByID(ctx context.Context, id string) (storage.Profile, error) {
	if err := ctx.Err(); err != nil {
		return storage.Profile{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Profile{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Profile{}, fmt.Errorf("profile id is required")
	}
	return s.getProfile(ctx, "id = ?", id)
}

// GetProfileBySlug returns one profile with its blocks in position order.
func (s *Store) GetProfileBySlug(ctx context.Context, slug string) (storage.Profile, error) {
	if err := ctx.Err(); err != nil {
		return storage.Profile{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Profile{}, fmt.Errorf("storage is not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return storage.Profile{}, fmt.Errorf("slug is required")
	}
	return s.getProfile(ctx, "slug = ?", slug)
}

// ListProfilesByOwner returns all profiles owned by the account, oldest first.
func (s *Store) ListProfilesByOwner(ctx context.Context, ownerAccountID string) ([]storage.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ownerAccountID = strings.TrimSpace(ownerAccountID)
	if ownerAccountID == "" {
		return nil, fmt.Errorf("owner account id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		profileColumns+` FROM profiles WHERE owner_account_id = ? ORDER BY created_at ASC, id ASC`,
		ownerAccountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []storage.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	for i := range profiles {
		blocks, err := s.loadBlocks(ctx, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].Blocks = blocks
	}
	return profiles, nil
}

// ReplaceProfile overwrites envelope fields and the full block sequence.
// Slug, owner, and creation time are kept from the stored row.
func (s *Store) ReplaceProfile(ctx context.Context, profile storage.Profile) (storage.Profile, error) {
	if err := ctx.Err(); err != nil {
		return storage.Profile{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Profile{}, fmt.Errorf("storage is not configured")
	}
	profileID := strings.TrimSpace(profile.ID)
	if profileID == "" {
		return storage.Profile{}, fmt.Errorf("profile id is required")
	}
	updatedAt := profile.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Profile{}, fmt.Errorf("begin replace profile: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE profiles SET
		   display_name = ?, title = ?, company = ?, bio = ?,
		   avatar_url = ?, cover_url = ?,
		   theme_layout = ?, theme_color = ?,
		   updated_at = ?
		 WHERE id = ?`,
		profile.DisplayName,
		profile.Title,
		profile.Company,
		profile.Bio,
		profile.AvatarURL,
		profile.CoverURL,
		profile.ThemeLayout,
		profile.ThemeColor,
		toMillis(updatedAt),
		profileID,
	)
	if err != nil {
		return storage.Profile{}, fmt.Errorf("replace profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Profile{}, fmt.Errorf("replace profile: %w", err)
	}
	if affected == 0 {
		return storage.Profile{}, storage.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_blocks WHERE profile_id = ?`, profileID); err != nil {
		return storage.Profile{}, fmt.Errorf("replace profile blocks: %w", err)
	}
	if err := insertBlocks(ctx, tx, profileID, profile.Blocks); err != nil {
		return storage.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.Profile{}, fmt.Errorf("commit replace profile: %w", err)
	}

	return s.GetProfileByID(ctx, profileID)
}

// AppendEvent inserts one engagement event.
func (s *Store) AppendEvent(ctx context.Context, event storage.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	profileID := strings.TrimSpace(event.ProfileID)
	kind := strings.TrimSpace(event.Kind)
	if profileID == "" {
		return fmt.Errorf("profile id is required")
	}
	if kind == "" {
		return fmt.Errorf("event kind is required")
	}
	createdAt := event.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO analytics_events (profile_id, kind, created_at) VALUES (?, ?, ?)`,
		profileID,
		kind,
		toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// TotalsByOwner returns event counts per kind across the owner's profiles.
func (s *Store) TotalsByOwner(ctx context.Context, ownerAccountID string) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	ownerAccountID = strings.TrimSpace(ownerAccountID)
	if ownerAccountID == "" {
		return nil, fmt.Errorf("owner account id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT e.kind, COUNT(*)
		   FROM analytics_events e
		   JOIN profiles p ON p.id = e.profile_id
		  WHERE p.owner_account_id = ?
		  GROUP BY e.kind`,
		ownerAccountID,
	)
	if err != nil {
		return nil, fmt.Errorf("event totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("event totals: %w", err)
		}
		totals[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event totals: %w", err)
	}
	return totals, nil
}

const profileColumns = `SELECT id, owner_account_id, slug,
        display_name, title, company, bio,
        avatar_url, cover_url,
        theme_layout, theme_color,
        created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (storage.Profile, error) {
	var profile storage.Profile
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&profile.ID,
		&profile.OwnerAccountID,
		&profile.Slug,
		&profile.DisplayName,
		&profile.Title,
		&profile.Company,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.CoverURL,
		&profile.ThemeLayout,
		&profile.ThemeColor,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Profile{}, err
	}
	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}

func (s *Store) getProfile(ctx context.Context, where string, arg any) (storage.Profile, error) {
	row := s.sqlDB.QueryRowContext(ctx, profileColumns+` FROM profiles WHERE `+where, arg)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Profile{}, storage.ErrNotFound
		}
		return storage.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	blocks, err := s.loadBlocks(ctx, profile.ID)
	if err != nil {
		return storage.Profile{}, err
	}
	profile.Blocks = blocks
	return profile, nil
}

func (s *Store) loadBlocks(ctx context.Context, profileID string) ([]storage.Block, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, position, type, data, is_enabled
		   FROM profile_blocks
		  WHERE profile_id = ?
		  ORDER BY position ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	defer rows.Close()

	var blocks []storage.Block
	for rows.Next() {
		var block storage.Block
		var data string
		var enabled int
		if err := rows.Scan(&block.ID, &block.Position, &block.Type, &data, &enabled); err != nil {
			return nil, fmt.Errorf("load blocks: %w", err)
		}
		block.Data = []byte(data)
		block.Enabled = enabled != 0
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}
	return blocks, nil
}

func insertBlocks(ctx context.Context, tx *sql.Tx, profileID string, blocks []storage.Block) error {
	for position, block := range blocks {
		blockID := strings.TrimSpace(block.ID)
		if blockID == "" {
			return fmt.Errorf("block id is required")
		}
		data := block.Data
		if len(data) == 0 {
			data = []byte("{}")
		}
		enabled := 0
		if block.Enabled {
			enabled = 1
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO profile_blocks (id, profile_id, position, type, data, is_enabled)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			blockID,
			profileID,
			position,
			block.Type,
			string(data),
			enabled,
		); err != nil {
			return fmt.Errorf("insert block: %w", err)
		}
	}
	return nil
}

func isProfileUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}

var _ storage.ProfileStore = (*Store)(nil)
var _ storage.EventStore = (*Store)(nil)
