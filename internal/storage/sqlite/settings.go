package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agalitsyn/dailyflow/internal/model"
)

type SettingsStorage struct {
	db *sql.DB
}

func NewSettingsStorage(db *sql.DB) *SettingsStorage {
	return &SettingsStorage{db: db}
}

func (s *SettingsStorage) FetchPrioritySettings(ctx context.Context, userID int) (*model.PrioritySettings, error) {
	const q = `
		SELECT critical_threshold, urgent_threshold, soon_threshold, distant_threshold,
			critical_boost, urgent_boost, soon_boost, distant_boost,
			aging_boost_days, aging_boost_amount
		FROM priority_settings WHERE user_id = ?`

	var ps model.PrioritySettings
	err := s.db.QueryRowContext(ctx, q, userID).Scan(
		&ps.CriticalThreshold,
		&ps.UrgentThreshold,
		&ps.SoonThreshold,
		&ps.DistantThreshold,
		&ps.CriticalBoost,
		&ps.UrgentBoost,
		&ps.SoonBoost,
		&ps.DistantBoost,
		&ps.AgingBoostDays,
		&ps.AgingBoostAmount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("could not fetch priority settings: %w", err)
	}
	return &ps, nil
}

func (s *SettingsStorage) SavePrioritySettings(ctx context.Context, userID int, ps model.PrioritySettings) error {
	if err := ps.Validate(); err != nil {
		return err
	}

	const q = `
		INSERT INTO priority_settings (
			user_id, critical_threshold, urgent_threshold, soon_threshold, distant_threshold,
			critical_boost, urgent_boost, soon_boost, distant_boost, aging_boost_days, aging_boost_amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			critical_threshold = excluded.critical_threshold,
			urgent_threshold = excluded.urgent_threshold,
			soon_threshold = excluded.soon_threshold,
			distant_threshold = excluded.distant_threshold,
			critical_boost = excluded.critical_boost,
			urgent_boost = excluded.urgent_boost,
			soon_boost = excluded.soon_boost,
			distant_boost = excluded.distant_boost,
			aging_boost_days = excluded.aging_boost_days,
			aging_boost_amount = excluded.aging_boost_amount`

	_, err := s.db.ExecContext(ctx, q,
		userID,
		ps.CriticalThreshold,
		ps.UrgentThreshold,
		ps.SoonThreshold,
		ps.DistantThreshold,
		ps.CriticalBoost,
		ps.UrgentBoost,
		ps.SoonBoost,
		ps.DistantBoost,
		ps.AgingBoostDays,
		ps.AgingBoostAmount,
	)
	if err != nil {
		return fmt.Errorf("could not save priority settings: %w", err)
	}
	return nil
}
