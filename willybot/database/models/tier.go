package models

import "fmt"

type Tier int

const (
	TierEasy Tier = iota + 1
	TierNormal
	TierHard
	TierInsane
	TierExtra
	TierMythic
)

type tierInfo struct {
	name   string
	icon   string
	column string
}

// Mythic quests have no completion counter.
var tiers = [...]tierInfo{
	TierEasy:   {name: "Easy", icon: "🟢", column: "easy"},
	TierNormal: {name: "Normal", icon: "🔵", column: "normal"},
	TierHard:   {name: "Hard", icon: "🟠", column: "hard"},
	TierInsane: {name: "Insane", icon: "🔴", column: "insane"},
	TierExtra:  {name: "Extra", icon: "🟣", column: "extra"},
	TierMythic: {name: "Mythic", icon: "⚫"},
}

// CountedTiers lists the tiers that carry a completion counter, in order.
func CountedTiers() []Tier {
	return []Tier{TierEasy, TierNormal, TierHard, TierInsane, TierExtra}
}

func (t Tier) Valid() bool {
	return t >= TierEasy && t <= TierMythic
}

func (t Tier) Name() string {
	if !t.Valid() {
		return "Unknown"
	}
	return tiers[t].name
}

func (t Tier) Icon() string {
	if !t.Valid() {
		return "❔"
	}
	return tiers[t].icon
}

// Column is the user_quests counter for the tier.
func (t Tier) Column() (string, bool) {
	if !t.Valid() || tiers[t].column == "" {
		return "", false
	}
	return tiers[t].column, true
}

// Points is the quest-point weight of one completion.
func (t Tier) Points() int64 {
	return int64(t)
}

func (t Tier) String() string {
	return fmt.Sprintf("%s %s", t.Icon(), t.Name())
}
