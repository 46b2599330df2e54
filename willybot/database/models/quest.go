package models

import "github.com/uptrace/bun"

// Quest ids are the ids of the announcement messages, never generated locally.
type Quest struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	ID          int64  `bun:"id,pk"`
	Name        string `bun:"name,notnull,unique"`
	Tier        Tier   `bun:"tier,notnull"`
	Description string `bun:"description,nullzero"`
	Expires     int64  `bun:"expires,notnull"`
}

// UserQuest holds a user's completion counters for tiers 1 to 5.
type UserQuest struct {
	bun.BaseModel `bun:"table:user_quests,alias:uq"`

	UserID int64 `bun:"user_id,pk"`
	Easy   int64 `bun:"easy,notnull,default:0"`
	Normal int64 `bun:"normal,notnull,default:0"`
	Hard   int64 `bun:"hard,notnull,default:0"`
	Insane int64 `bun:"insane,notnull,default:0"`
	Extra  int64 `bun:"extra,notnull,default:0"`
}

// Count returns the completion counter for the tier. Tiers without a
// counter report zero.
func (uq *UserQuest) Count(t Tier) int64 {
	switch t {
	case TierEasy:
		return uq.Easy
	case TierNormal:
		return uq.Normal
	case TierHard:
		return uq.Hard
	case TierInsane:
		return uq.Insane
	case TierExtra:
		return uq.Extra
	}
	return 0
}

// Total is the number of completions across all counted tiers.
func (uq *UserQuest) Total() int64 {
	return uq.Easy + uq.Normal + uq.Hard + uq.Insane + uq.Extra
}
