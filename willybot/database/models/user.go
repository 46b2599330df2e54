package models

import "github.com/uptrace/bun"

// User is a registered member of the server. Joined and Active are unix
// timestamps in seconds.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID     int64  `bun:"id,pk"`
	Name   string `bun:"name,notnull,unique"`
	Title  string `bun:"title,nullzero"`
	Joined int64  `bun:"joined,notnull"`
	Active int64  `bun:"active,notnull"`
	XP     int64  `bun:"xp,notnull,default:0"`
}

// RankedUser is a row of an xp or quest-point leaderboard.
type RankedUser struct {
	ID    int64  `bun:"id"`
	Name  string `bun:"name"`
	Value int64  `bun:"value"`
}
