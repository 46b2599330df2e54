package leveling

// Progress locates an xp total inside its level.
type Progress struct {
	Level int64
	XP    int64
	Start int64 // xp at which Level begins
	Next  int64 // xp at which Level+1 begins
}

// Fraction is how far XP has moved from Start towards Next, in [0, 1).
func (p Progress) Fraction() float64 {
	span := p.Next - p.Start
	if span <= 0 {
		return 0
	}
	return float64(p.XP-p.Start) / float64(span)
}

// Remaining is the xp still needed to reach the next level.
func (p Progress) Remaining() int64 {
	return p.Next - p.XP
}

// MessageActivity describes a chat message for the xp reward.
type MessageActivity struct {
	ContentLength  int
	HasAttachments bool
	// FirstToday is set when the author's previous activity fell on an
	// earlier UTC day.
	FirstToday bool
	// Level is the author's level before this message.
	Level int64
}
