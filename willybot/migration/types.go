package migration

import (
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// Legacy rows as stored by the previous bot. Most columns were nullable.

type legacyUser struct {
	bun.BaseModel `bun:"table:Users"`
	ID            int64          `bun:"id"`
	Name          sql.NullString `bun:"name"`
	Title         sql.NullString `bun:"title"`
	Joined        sql.NullInt64  `bun:"joined"`
	Active        sql.NullInt64  `bun:"active"`
	XP            sql.NullInt64  `bun:"xp"`
}

type legacyBadge struct {
	bun.BaseModel `bun:"table:Badges"`
	ID            int64          `bun:"id"`
	Name          sql.NullString `bun:"name"`
	Image         sql.NullString `bun:"image"`
	Description   sql.NullString `bun:"description"`
}

type legacyUserBadge struct {
	bun.BaseModel `bun:"table:UserBadges"`
	User          int64 `bun:"user"`
	Badge         int64 `bun:"badge"`
}

type legacyQuest struct {
	bun.BaseModel `bun:"table:Quests"`
	ID            int64          `bun:"id"`
	Name          sql.NullString `bun:"name"`
	Tier          sql.NullInt64  `bun:"tier"`
	Description   sql.NullString `bun:"description"`
	Expires       sql.NullInt64  `bun:"expires"`
}

type legacyUserQuest struct {
	bun.BaseModel `bun:"table:UserQuests"`
	User          int64         `bun:"user"`
	Easy          sql.NullInt64 `bun:"easy"`
	Normal        sql.NullInt64 `bun:"normal"`
	Hard          sql.NullInt64 `bun:"hard"`
	Insane        sql.NullInt64 `bun:"insane"`
	Extra         sql.NullInt64 `bun:"extra"`
}

// MigrationStats tracks migration progress and issues
type MigrationStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
	EndTime   time.Time
}

// TableStats tracks stats for individual tables
type TableStats struct {
	TableName string
	Processed int
	Inserted  int
	// Skipped counts rows that already existed or could not be converted.
	Skipped int
}

func (s *MigrationStats) table(name string) *TableStats {
	if s.Tables == nil {
		s.Tables = make(map[string]*TableStats)
	}
	ts, ok := s.Tables[name]
	if !ok {
		ts = &TableStats{TableName: name}
		s.Tables[name] = ts
	}
	return ts
}

func (s *MigrationStats) Totals() (processed, inserted, skipped int) {
	for _, ts := range s.Tables {
		processed += ts.Processed
		inserted += ts.Inserted
		skipped += ts.Skipped
	}
	return processed, inserted, skipped
}
