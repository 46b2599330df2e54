package willybot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Bot     BotConfig         `toml:"bot"`
	DB      database.DBConfig `toml:"db"`
	Paths   PathsConfig       `toml:"paths"`
	Quests  QuestsConfig      `toml:"quests"`
	Roles   RolesConfig       `toml:"roles"`
	Tasks   TasksConfig       `toml:"tasks"`
	Spaces  SpacesConfig      `toml:"spaces"`
	Metrics MetricsConfig     `toml:"metrics"`
}

type BotConfig struct {
	Token        string         `toml:"token"`
	GuildID      snowflake.ID   `toml:"guild_id"`
	OwnerIDs     []snowflake.ID `toml:"owner_ids"`
	DevGuilds    []snowflake.ID `toml:"dev_guilds"`
	SyncCommands bool           `toml:"sync_commands"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type PathsConfig struct {
	Backups string `toml:"backups"`
	Temp    string `toml:"temp"`
	Badges  string `toml:"badges"`
}

type QuestsConfig struct {
	Channel snowflake.ID `toml:"channel"`
}

// RolesConfig maps role names to ids. Names are matched case-insensitively.
type RolesConfig struct {
	Mod     snowflake.ID            `toml:"mod"`
	Admin   snowflake.ID            `toml:"admin"`
	Colors  map[string]snowflake.ID `toml:"colors"`
	Notifys map[string]snowflake.ID `toml:"notifys"`
}

// Duration reads "24h" style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type TasksConfig struct {
	Disabled           bool     `toml:"disabled"`
	BackupInterval     Duration `toml:"backup_interval"`
	BackupRetention    Duration `toml:"backup_retention"`
	TempPurgeInterval  Duration `toml:"temp_purge_interval"`
	TempRetention      Duration `toml:"temp_retention"`
	UserPurgeInterval  Duration `toml:"user_purge_interval"`
	InactiveUserWindow Duration `toml:"inactive_user_window"`
	QuestPurgeInterval Duration `toml:"quest_purge_interval"`
	QuestExpiryGrace   Duration `toml:"quest_expiry_grace"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}

func (c SpacesConfig) Enabled() bool {
	return c.Key != "" && c.Secret != "" && c.Bucket != ""
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

func (c *Config) applyDefaults() {
	if c.DB.Driver == "" {
		c.DB.Driver = database.DriverSQLite
	}
	if c.DB.Driver == database.DriverSQLite && c.DB.Path == "" {
		c.DB.Path = database.DefaultSQLitePath
	}

	dataDir := "data"
	if c.DB.Path != "" {
		dataDir = filepath.Dir(c.DB.Path)
	}
	if c.Paths.Backups == "" {
		c.Paths.Backups = filepath.Join(dataDir, "backups")
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = filepath.Join(dataDir, "temp")
	}
	if c.Paths.Badges == "" {
		c.Paths.Badges = filepath.Join(dataDir, "badges")
	}

	defaults := []struct {
		field *Duration
		value time.Duration
	}{
		{&c.Tasks.BackupInterval, config.BackupInterval},
		{&c.Tasks.BackupRetention, config.BackupRetention},
		{&c.Tasks.TempPurgeInterval, config.TempPurgeInterval},
		{&c.Tasks.TempRetention, config.TempRetention},
		{&c.Tasks.UserPurgeInterval, config.UserPurgeInterval},
		{&c.Tasks.InactiveUserWindow, config.InactiveUserWindow},
		{&c.Tasks.QuestPurgeInterval, config.QuestPurgeInterval},
		{&c.Tasks.QuestExpiryGrace, config.QuestExpiryGrace},
	}
	for _, d := range defaults {
		if d.field.Duration <= 0 {
			d.field.Duration = d.value
		}
	}
}
