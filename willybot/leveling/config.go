package leveling

import (
	"time"

	"github.com/willyosu/willybot/willybot/config"
)

type Config struct {
	// XP for level L is Factor * L^2
	Factor int64

	// Message rewards
	MessageCooldown time.Duration
	MaxMessageXP    int64
	CharsPerXP      int
	AttachmentBonus int64
}

func NewDefaultConfig() *Config {
	return &Config{
		Factor:          config.XPFactor,
		MessageCooldown: config.MessageXPCooldown,
		MaxMessageXP:    config.MaxMessageXP,
		CharsPerXP:      config.MessageXPPerChars,
		AttachmentBonus: 1,
	}
}
