package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/willyosu/willybot/willybot/database/models"
)

const defaultBatchSize = 500

// Migrator copies a legacy database into the current schema. Rows whose key
// already exists in the target are left untouched, so a migration can be
// re-run safely.
type Migrator struct {
	src       *bun.DB
	dst       *bun.DB
	batchSize int
	stats     MigrationStats
}

func NewMigrator(src, dst *bun.DB) *Migrator {
	return &Migrator{
		src:       src,
		dst:       dst,
		batchSize: defaultBatchSize,
	}
}

// SetBatchSize overrides the default batch size for inserts
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

func (m *Migrator) Stats() *MigrationStats {
	return &m.stats
}

// MigrateAll copies users and badges before the tables that reference them.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	m.stats = MigrationStats{StartTime: time.Now()}
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"users", m.migrateUsers},
		{"badges", m.migrateBadges},
		{"user_badges", m.migrateUserBadges},
		{"quests", m.migrateQuests},
		{"user_quests", m.migrateUserQuests},
	}
	for _, step := range steps {
		start := time.Now()
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", step.name, err)
		}
		ts := m.stats.table(step.name)
		logProgress("Migrated table",
			slog.String("table", step.name),
			slog.Int("processed", ts.Processed),
			slog.Int("inserted", ts.Inserted),
			slog.Int("skipped", ts.Skipped),
			slog.Duration("took", time.Since(start)))
	}
	m.stats.EndTime = time.Now()
	return nil
}

func (m *Migrator) migrateUsers(ctx context.Context) error {
	var rows []legacyUser
	if err := m.src.NewSelect().Model(&rows).Order("id").Scan(ctx); err != nil {
		return err
	}

	ts := m.stats.table("users")
	users := make([]models.User, 0, len(rows))
	for _, r := range rows {
		ts.Processed++
		if !r.Name.Valid || r.Name.String == "" {
			ts.Skipped++
			slog.Warn("Skipping unnamed user", slog.String("type", "db"), slog.Int64("id", r.ID))
			continue
		}
		users = append(users, models.User{
			ID:     r.ID,
			Name:   r.Name.String,
			Title:  r.Title.String,
			Joined: r.Joined.Int64,
			Active: r.Active.Int64,
			XP:     r.XP.Int64,
		})
	}
	return insertBatches(ctx, m, ts, users)
}

func (m *Migrator) migrateBadges(ctx context.Context) error {
	var rows []legacyBadge
	if err := m.src.NewSelect().Model(&rows).Order("id").Scan(ctx); err != nil {
		return err
	}

	ts := m.stats.table("badges")
	badges := make([]models.Badge, 0, len(rows))
	for _, r := range rows {
		ts.Processed++
		if !r.Name.Valid || r.Name.String == "" {
			ts.Skipped++
			continue
		}
		badges = append(badges, models.Badge{
			ID:          r.ID,
			Name:        r.Name.String,
			Image:       r.Image.String,
			Description: r.Description.String,
		})
	}
	if err := insertBatches(ctx, m, ts, badges); err != nil {
		return err
	}
	return m.advanceBadgeIDs(ctx)
}

// advanceBadgeIDs moves the badge id sequence past the imported ids. Only
// postgres keeps a separate sequence; sqlite numbers from the table itself.
func (m *Migrator) advanceBadgeIDs(ctx context.Context) error {
	query := sequenceResetQuery(m.dst.Dialect().Name(), "badges", "id")
	if query == "" {
		return nil
	}
	_, err := m.dst.ExecContext(ctx, query)
	return err
}

func sequenceResetQuery(name dialect.Name, table, column string) string {
	if name != dialect.PG {
		return ""
	}
	return fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', '%[2]s'), COALESCE(MAX(%[2]s), 0) + 1, false) FROM %[1]s",
		table, column)
}

func (m *Migrator) migrateUserBadges(ctx context.Context) error {
	var rows []legacyUserBadge
	if err := m.src.NewSelect().Model(&rows).Order("user", "badge").Scan(ctx); err != nil {
		return err
	}

	ts := m.stats.table("user_badges")
	awards := make([]models.UserBadge, 0, len(rows))
	for _, r := range rows {
		ts.Processed++
		awards = append(awards, models.UserBadge{UserID: r.User, BadgeID: r.Badge})
	}
	return insertBatches(ctx, m, ts, awards)
}

func (m *Migrator) migrateQuests(ctx context.Context) error {
	var rows []legacyQuest
	if err := m.src.NewSelect().Model(&rows).Order("id").Scan(ctx); err != nil {
		return err
	}

	ts := m.stats.table("quests")
	quests := make([]models.Quest, 0, len(rows))
	for _, r := range rows {
		ts.Processed++
		tier := models.Tier(r.Tier.Int64)
		if !r.Name.Valid || r.Name.String == "" || !tier.Valid() {
			ts.Skipped++
			continue
		}
		quests = append(quests, models.Quest{
			ID:          r.ID,
			Name:        r.Name.String,
			Tier:        tier,
			Description: r.Description.String,
			Expires:     r.Expires.Int64,
		})
	}
	return insertBatches(ctx, m, ts, quests)
}

// migrateUserQuests keeps the first row per user; the legacy table had no
// key and could hold duplicates.
func (m *Migrator) migrateUserQuests(ctx context.Context) error {
	var rows []legacyUserQuest
	if err := m.src.NewSelect().Model(&rows).Order("rowid").Scan(ctx); err != nil {
		return err
	}

	ts := m.stats.table("user_quests")
	seen := make(map[int64]bool, len(rows))
	counts := make([]models.UserQuest, 0, len(rows))
	for _, r := range rows {
		ts.Processed++
		if seen[r.User] {
			ts.Skipped++
			continue
		}
		seen[r.User] = true
		counts = append(counts, models.UserQuest{
			UserID: r.User,
			Easy:   r.Easy.Int64,
			Normal: r.Normal.Int64,
			Hard:   r.Hard.Int64,
			Insane: r.Insane.Int64,
			Extra:  r.Extra.Int64,
		})
	}
	return insertBatches(ctx, m, ts, counts)
}

// insertBatches inserts rows, ignoring any whose key already exists.
func insertBatches[T any](ctx context.Context, m *Migrator, ts *TableStats, rows []T) error {
	converted := len(rows)
	for start := 0; start < len(rows); start += m.batchSize {
		end := min(start+m.batchSize, len(rows))
		batch := rows[start:end]

		res, err := m.dst.NewInsert().Model(&batch).Ignore().Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		ts.Inserted += int(n)
	}
	ts.Skipped += converted - ts.Inserted
	return nil
}

func logProgress(message string, attrs ...any) {
	slog.Info(message, append([]any{slog.String("type", "db"), slog.String("service", "migration")}, attrs...)...)
}
