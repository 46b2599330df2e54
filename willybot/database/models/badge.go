package models

import "github.com/uptrace/bun"

type Badge struct {
	bun.BaseModel `bun:"table:badges,alias:b"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull,unique"`
	Image       string `bun:"image,notnull"`
	Description string `bun:"description,nullzero"`
}

// UserBadge links a user to a badge they were awarded. The pair is the key.
type UserBadge struct {
	bun.BaseModel `bun:"table:user_badges,alias:ub"`

	UserID  int64 `bun:"user_id,pk"`
	BadgeID int64 `bun:"badge_id,pk"`
}

// BadgeCount is a grouped count keyed by either a badge or a user.
type BadgeCount struct {
	ID    int64  `bun:"id"`
	Name  string `bun:"name"`
	Count int64  `bun:"count"`
}
