package config

import "time"

// Display
const (
	DefaultPageSize = 10

	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	// Fallback for levels beyond the last colour bucket.
	DefaultLevelColor = 0xFED429
)

// Database
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	SlowCommandThreshold    = 2 * time.Second
)

// Progression
const (
	// XP needed for level L is XPFactor * L^2.
	XPFactor = 50

	MessageXPCooldown = 5 * time.Second
	MaxMessageXP      = 4
	MessageXPPerChars = 20

	MaxLevelCalc = 1000
	MaxXPCalc    = 50_000_000
)

// Maintenance defaults, overridable from the [tasks] section.
const (
	BackupInterval     = 24 * time.Hour
	BackupRetention    = 7 * 24 * time.Hour
	TempPurgeInterval  = time.Hour
	TempRetention      = 60 * time.Second
	UserPurgeInterval  = 24 * time.Hour
	InactiveUserWindow = 30 * 24 * time.Hour
	QuestPurgeInterval = time.Hour
	QuestExpiryGrace   = 24 * time.Hour
)

// Commands
const (
	CommandCooldown    = 3 * time.Second
	CooldownCacheSize  = 1024
	CompoundSeparator  = "::"
	DescriptionCutoff  = 1024
	DefaultQuestPoints = 1
	UsernameMinLength  = 3
	UsernameMaxLength  = 16
)
