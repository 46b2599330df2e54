package leveling

import (
	"math"

	"github.com/willyosu/willybot/willybot/config"
)

// levelColors holds one colour per five levels, starting at level 0.
var levelColors = [...]int{
	0x546E7A, // darker grey
	0x979C9F, // light grey
	0x1F8B4C, // dark green
	0x2ECC71, // green
	0x11806A, // dark teal
	0x1ABC9C, // teal
	0x206694, // dark blue
	0x3498DB, // blue
	0x5865F2, // blurple
	0x7289DA, // og blurple
	0x71368A, // dark purple
	0x9B59B6, // purple
	0xAD1457, // dark magenta
	0xE91E63, // magenta
	0x992D22, // dark red
	0xE74C3C, // red
	0xA84300, // dark orange
	0xE67E22, // orange
	0xC27C0E, // dark gold
	0xF1C40F, // gold
}

// LevelColor rounds level to the nearest multiple of five and returns that
// bucket's colour.
func LevelColor(level int64) int {
	if level < 0 {
		level = 0
	}
	bucket := int(math.Round(float64(level) / 5))
	if bucket >= len(levelColors) {
		return config.DefaultLevelColor
	}
	return levelColors[bucket]
}
