package leveling

import (
	"math"

	"github.com/willyosu/willybot/willybot/database/models"
)

type Calculator struct {
	config *Config
}

func NewCalculator(config *Config) *Calculator {
	if config == nil {
		config = NewDefaultConfig()
	}
	return &Calculator{config: config}
}

func (c *Calculator) Config() *Config {
	return c.config
}

// LevelFromXP returns floor(sqrt(xp / Factor)).
func (c *Calculator) LevelFromXP(xp int64) int64 {
	if xp <= 0 {
		return 0
	}
	level := int64(math.Sqrt(float64(xp) / float64(c.config.Factor)))
	// correct float rounding at exact boundaries
	for level > 0 && c.XPFromLevel(level) > xp {
		level--
	}
	for c.XPFromLevel(level+1) <= xp {
		level++
	}
	return level
}

// XPFromLevel returns the xp at which level begins.
func (c *Calculator) XPFromLevel(level int64) int64 {
	if level <= 0 {
		return 0
	}
	return c.config.Factor * level * level
}

func (c *Calculator) Progress(xp int64) Progress {
	if xp < 0 {
		xp = 0
	}
	level := c.LevelFromXP(xp)
	return Progress{
		Level: level,
		XP:    xp,
		Start: c.XPFromLevel(level),
		Next:  c.XPFromLevel(level + 1),
	}
}

// MessageXP is the reward for one qualifying message: one point per
// CharsPerXP characters plus one, capped at MaxMessageXP, then the
// attachment bonus and, on the first message of a day, the author's level.
func (c *Calculator) MessageXP(m MessageActivity) int64 {
	per := c.config.CharsPerXP
	if per <= 0 {
		per = 1
	}
	xp := min(c.config.MaxMessageXP, 1+int64(m.ContentLength/per))
	if m.HasAttachments {
		xp += c.config.AttachmentBonus
	}
	if m.FirstToday {
		xp += m.Level
	}
	return xp
}

// QuestPoints is the sum of tier * completions over the counted tiers.
func QuestPoints(uq *models.UserQuest) int64 {
	if uq == nil {
		return 0
	}
	var qp int64
	for _, t := range models.CountedTiers() {
		qp += uq.Count(t) * t.Points()
	}
	return qp
}

var defaultCalculator = NewCalculator(NewDefaultConfig())

func LevelFromXP(xp int64) int64 {
	return defaultCalculator.LevelFromXP(xp)
}

func XPFromLevel(level int64) int64 {
	return defaultCalculator.XPFromLevel(level)
}

func GetProgress(xp int64) Progress {
	return defaultCalculator.Progress(xp)
}
