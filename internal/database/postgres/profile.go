package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pettycoon/backend/internal/database"
	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/repository"
)

const profileColumns = `user_id, username, crystals, diamonds, stones, level, xp, streak_days,
	last_streak_date, last_chest_claim, last_passive_claim, pet_type, pet_changes,
	quests_completed, total_clicks, total_crystals_earned, friends_count, is_banned,
	last_tap, tap_combo, legendary_streak, created_at, updated_at`

// ProfileRepository implements the profile repository for PostgreSQL
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) repository.Profile {
	return &ProfileRepository{db: db}
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var lastStreak, lastChest, lastPassive, lastTap *time.Time

	err := row.Scan(&p.ID, &p.Username, &p.Crystals, &p.Diamonds, &p.Stones, &p.Level, &p.XP,
		&p.StreakDays, &lastStreak, &lastChest, &lastPassive, &p.PetType, &p.PetChanges,
		&p.QuestsCompleted, &p.TotalClicks, &p.TotalCrystalsEarned, &p.FriendsCount, &p.IsBanned,
		&lastTap, &p.Combo.TapCombo, &p.Combo.LegendaryStreak, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.LastStreakDate = lastStreak
	p.LastChestClaim = lastChest
	p.LastPassiveClaim = lastPassive
	if lastTap != nil {
		p.Combo.LastTap = *lastTap
	}
	return &p, nil
}

// CreateProfile registers a profile, or refreshes the username when the
// player already exists. Registration is idempotent.
func (r *ProfileRepository) CreateProfile(ctx context.Context, userID, username string) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, username, pet_type)
		VALUES ($1, $2, 'cat')
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// GetProfile retrieves a profile by user ID
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetSnapshot builds the requirement-evaluation projection in one query,
// joining the caught-pets aggregate and the achievement count.
func (r *ProfileRepository) GetSnapshot(ctx context.Context, userID string) (*domain.PlayerSnapshot, error) {
	query := `
		SELECT p.user_id, p.level, p.crystals, p.diamonds, p.streak_days, p.pet_changes,
			p.quests_completed, p.total_clicks, p.friends_count,
			COALESCE(ps.legendary_caught, 0), COALESCE(ps.max_legendary_streak, 0),
			(SELECT COUNT(*) FROM user_unlocks u
				WHERE u.user_id = p.user_id AND u.item_type = 'achievement')
		FROM profiles p
		LEFT JOIN pet_stats ps ON ps.user_id = p.user_id
		WHERE p.user_id = $1`

	var s domain.PlayerSnapshot
	err := r.db.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.Level, &s.Crystals, &s.Diamonds,
		&s.StreakDays, &s.PetChanges, &s.QuestsCompleted, &s.TotalClicks, &s.FriendsCount,
		&s.LegendaryCaught, &s.MaxLegendaryStreak, &s.AchievementsCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &s, nil
}

// ApplyDelta adjusts balances atomically. The WHERE clause rejects any
// deduction that would drive a balance negative; XP clamps at zero instead
// since penalties floor rather than fail.
func (r *ProfileRepository) ApplyDelta(ctx context.Context, userID string, delta domain.CurrencyDelta) (*domain.Profile, error) {
	return applyDelta(ctx, r.db, userID, delta)
}

func applyDelta(ctx context.Context, q querier, userID string, delta domain.CurrencyDelta) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET crystals = crystals + $2,
			diamonds = diamonds + $3,
			stones = stones + $4,
			xp = GREATEST(xp + $5, 0),
			total_crystals_earned = total_crystals_earned + GREATEST($2, 0),
			updated_at = NOW()
		WHERE user_id = $1
			AND crystals + $2 >= 0 AND diamonds + $3 >= 0 AND stones + $4 >= 0
		RETURNING ` + profileColumns

	profile, err := scanProfile(q.QueryRow(ctx, query, userID, delta.Crystals, delta.Diamonds, delta.Stones, delta.XP))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, deltaFailure(ctx, q, userID)
		}
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return profile, nil
}

// deltaFailure tells a missing profile apart from a short balance after a
// guarded update matched no rows.
func deltaFailure(ctx context.Context, q querier, userID string) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check profile existence: %w", err)
	}
	if !exists {
		return domain.ErrProfileNotFound
	}
	return domain.ErrInsufficientFunds
}

// SetLevel stores a recomputed level. Levels never go down, so a stale
// writer simply matches no rows.
func (r *ProfileRepository) SetLevel(ctx context.Context, userID string, level int) error {
	_, err := r.db.Exec(ctx, `UPDATE profiles SET level = $2, updated_at = NOW() WHERE user_id = $1 AND level < $2`, userID, level)
	if err != nil {
		return fmt.Errorf("failed to set level: %w", err)
	}
	return nil
}

// RecordTap credits one tap and persists the combo state in a single update
func (r *ProfileRepository) RecordTap(ctx context.Context, userID string, crystals, xp int64, state domain.ComboState) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET crystals = crystals + $2,
			xp = xp + $3,
			total_clicks = total_clicks + 1,
			total_crystals_earned = total_crystals_earned + $2,
			last_tap = $4, tap_combo = $5, legendary_streak = $6,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID, crystals, xp,
		state.LastTap, state.TapCombo, state.LegendaryStreak))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to record tap: %w", err)
	}
	return profile, nil
}

// RecordCatch credits a catch and maintains the caught-pets aggregate in the
// same transaction.
func (r *ProfileRepository) RecordCatch(ctx context.Context, userID string, crystals, xp int64, state domain.ComboState, legendary bool) (*domain.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer rollback(ctx, tx)

	query := `
		UPDATE profiles
		SET crystals = crystals + $2,
			xp = xp + $3,
			total_crystals_earned = total_crystals_earned + $2,
			legendary_streak = $4,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	profile, err := scanProfile(tx.QueryRow(ctx, query, userID, crystals, xp, state.LegendaryStreak))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to record catch: %w", err)
	}

	legendaryInc := 0
	if legendary {
		legendaryInc = 1
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO pet_stats (user_id, total_caught, legendary_caught, max_legendary_streak)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			total_caught = pet_stats.total_caught + 1,
			legendary_caught = pet_stats.legendary_caught + $2,
			max_legendary_streak = GREATEST(pet_stats.max_legendary_streak, $3)`,
		userID, legendaryInc, state.LegendaryStreak)
	if err != nil {
		return nil, fmt.Errorf("failed to update pet stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit catch: %w", err)
	}
	return profile, nil
}

// ChangePet switches the active pet and bumps the change counter
func (r *ProfileRepository) ChangePet(ctx context.Context, userID, petType string) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET pet_type = $2, pet_changes = pet_changes + 1, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID, petType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to change pet: %w", err)
	}
	return profile, nil
}

// ClaimDailyChest credits the chest and advances the streak. The timestamp
// guard makes exactly one claim per UTC day win; the loser sees
// domain.ErrAlreadyClaimedToday.
func (r *ProfileRepository) ClaimDailyChest(ctx context.Context, userID string, claimedAt, dayStart time.Time, reward domain.CurrencyDelta, streakDays int) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET crystals = crystals + $2,
			diamonds = diamonds + $3,
			stones = stones + $4,
			xp = xp + $5,
			total_crystals_earned = total_crystals_earned + GREATEST($2, 0),
			streak_days = $6,
			last_streak_date = $7,
			last_chest_claim = $7,
			updated_at = NOW()
		WHERE user_id = $1 AND (last_chest_claim IS NULL OR last_chest_claim < $8)
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID,
		reward.Crystals, reward.Diamonds, reward.Stones, reward.XP,
		streakDays, claimedAt, dayStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1)`, userID).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("failed to check profile existence: %w", checkErr)
			}
			if !exists {
				return nil, domain.ErrProfileNotFound
			}
			return nil, domain.ErrAlreadyClaimedToday
		}
		return nil, fmt.Errorf("failed to claim daily chest: %w", err)
	}
	return profile, nil
}

// ClaimPassive credits accrued income. The claim only lands if
// last_passive_claim is unchanged since the caller computed the accrual;
// otherwise the caller gets domain.ErrConcurrencyConflict and recomputes.
func (r *ProfileRepository) ClaimPassive(ctx context.Context, userID string, prevClaim *time.Time, claimedAt time.Time, earned, xpPenalty int64) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET crystals = crystals + $2,
			xp = GREATEST(xp - $3, 0),
			total_crystals_earned = total_crystals_earned + $2,
			last_passive_claim = $4,
			updated_at = NOW()
		WHERE user_id = $1 AND last_passive_claim IS NOT DISTINCT FROM $5
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID, earned, xpPenalty, claimedAt, prevClaim))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1)`, userID).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("failed to check profile existence: %w", checkErr)
			}
			if !exists {
				return nil, domain.ErrProfileNotFound
			}
			return nil, domain.ErrConcurrencyConflict
		}
		return nil, fmt.Errorf("failed to claim passive income: %w", err)
	}
	return profile, nil
}
