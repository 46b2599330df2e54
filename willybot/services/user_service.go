package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
	"github.com/willyosu/willybot/willybot/database/repositories"
	"github.com/willyosu/willybot/willybot/leveling"
	"github.com/willyosu/willybot/willybot/utils"
)

// Member is the slice of a guild member the services need.
type Member struct {
	ID            int64
	Username      string
	Discriminator int
	Bot           bool
	JoinedAt      time.Time
}

// Activity is a single chat message seen by the bot.
type Activity struct {
	Author         Member
	ContentLength  int
	HasAttachments bool
}

// MemberLookup fetches a guild member by id, for registering members that
// have not spoken yet.
type MemberLookup func(ctx context.Context, id int64) (Member, error)

// Profile is everything the profile card shows.
type Profile struct {
	User       *models.User
	Progress   leveling.Progress
	Rank       int64
	Badges     []string
	Color      int
	JoinedAgo  string
	ActiveAgo  string
	Registered bool
}

type UserService struct {
	users  repositories.UserRepository
	awards repositories.UserBadgeRepository
	calc   *leveling.Calculator
	now    func() time.Time
}

func NewUserService(users repositories.UserRepository, awards repositories.UserBadgeRepository, calc *leveling.Calculator) *UserService {
	if calc == nil {
		calc = leveling.NewCalculator(nil)
	}
	return &UserService{
		users:  users,
		awards: awards,
		calc:   calc,
		now:    time.Now,
	}
}

// WithClock replaces the service clock. Used by tests.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// RegisterName derives the stored username from a platform username. Legacy
// accounts with a non-zero discriminator keep it as a suffix.
func RegisterName(m Member) string {
	name := utils.SanitizeUsername(m.Username)
	if m.Discriminator > 0 {
		name += fmt.Sprintf("%04d", m.Discriminator)
	}
	return name
}

// Register stores a new member with zero xp and the current time as their
// last activity. If the derived name is unusable or taken, the tail of the
// member id is appended.
func (s *UserService) Register(ctx context.Context, m Member) (*models.User, error) {
	user := &models.User{
		ID:     m.ID,
		Name:   RegisterName(m),
		Joined: m.JoinedAt.Unix(),
		Active: s.now().Unix(),
	}
	if m.JoinedAt.IsZero() {
		user.Joined = user.Active
	}

	if len(user.Name) < config.UsernameMinLength {
		user.Name = "user" + idSuffix(m.ID)
	}
	if len(user.Name) > config.UsernameMaxLength {
		user.Name = user.Name[:config.UsernameMaxLength]
	}

	taken, err := s.nameTaken(ctx, user.Name, m.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		suffix := idSuffix(m.ID)
		base := user.Name
		if len(base)+len(suffix) > config.UsernameMaxLength {
			base = base[:config.UsernameMaxLength-len(suffix)]
		}
		user.Name = base + suffix
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// nameTaken reports whether someone other than id already uses name, in
// any case.
func (s *UserService) nameTaken(ctx context.Context, name string, id int64) (bool, error) {
	existing, err := s.users.Search(ctx, database.ByName(name))
	switch {
	case database.IsNotFound(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return existing.ID != id, nil
}

func idSuffix(id int64) string {
	s := strconv.FormatInt(id, 10)
	if len(s) > 4 {
		s = s[len(s)-4:]
	}
	return s
}

// RecordActivity registers unknown authors, refreshes their last activity
// and grants message xp. It returns the xp granted. Messages from bots, and
// messages sent within the cooldown of the previous one, refresh the
// activity but grant nothing; a first message right after registration
// therefore grants nothing either.
func (s *UserService) RecordActivity(ctx context.Context, a Activity) (int64, error) {
	user, err := s.users.Get(ctx, a.Author.ID)
	if database.IsNotFound(err) {
		user, err = s.Register(ctx, a.Author)
	}
	if err != nil {
		return 0, err
	}

	now := s.now()
	if err := s.users.Update(ctx, user.ID, "active", now.Unix()); err != nil {
		return 0, err
	}

	cooldown := s.calc.Config().MessageCooldown
	if a.Author.Bot || now.Sub(time.Unix(user.Active, 0)) < cooldown {
		return 0, nil
	}

	xp := s.calc.MessageXP(leveling.MessageActivity{
		ContentLength:  a.ContentLength,
		HasAttachments: a.HasAttachments,
		FirstToday:     utils.IsDifferentDay(user.Active, now.Unix()),
		Level:          s.calc.LevelFromXP(user.XP),
	})
	if err := s.users.AddXP(ctx, user.ID, xp); err != nil {
		return 0, err
	}
	return xp, nil
}

// Profile looks up a user, registering them through lookup when the
// reference is an id of a member that was never seen.
func (s *UserService) Profile(ctx context.Context, ident database.Identifier, lookup MemberLookup) (*Profile, error) {
	user, err := s.users.Search(ctx, ident)
	registered := false
	if database.IsNotFound(err) && ident.IsID() && lookup != nil {
		member, lookupErr := lookup(ctx, ident.ID())
		if lookupErr != nil {
			return nil, err
		}
		if user, err = s.Register(ctx, member); err == nil {
			registered = true
		}
	}
	if err != nil {
		return nil, err
	}

	progress := s.calc.Progress(user.XP)
	rank, err := s.users.XPRank(ctx, user.XP)
	if err != nil {
		return nil, err
	}
	badges, err := s.awards.ImageList(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Profile{
		User:       user,
		Progress:   progress,
		Rank:       rank,
		Badges:     badges,
		Color:      leveling.LevelColor(progress.Level),
		JoinedAgo:  utils.TimeSince(time.Unix(user.Joined, 0), now),
		ActiveAgo:  utils.TimeSince(time.Unix(user.Active, 0), now),
		Registered: registered,
	}, nil
}

// Level returns a user and where their xp sits inside their level.
func (s *UserService) Level(ctx context.Context, ident database.Identifier) (*models.User, leveling.Progress, error) {
	user, err := s.users.Search(ctx, ident)
	if err != nil {
		return nil, leveling.Progress{}, err
	}
	return user, s.calc.Progress(user.XP), nil
}

// LevelCalc is the xp needed for a level. Negative input is taken as its
// absolute value.
func (s *UserService) LevelCalc(level int64) (int64, error) {
	level = abs(level)
	if level > config.MaxLevelCalc {
		return 0, database.NewValidationError("level", "can not be higher than %d", config.MaxLevelCalc)
	}
	return s.calc.XPFromLevel(level), nil
}

// XPCalc is the level reached with an xp total.
func (s *UserService) XPCalc(xp int64) (int64, error) {
	xp = abs(xp)
	if xp > config.MaxXPCalc {
		return 0, database.NewValidationError("xp", "can not be higher than %d", config.MaxXPCalc)
	}
	return s.calc.LevelFromXP(xp), nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// TopXP is one page of the xp leaderboard.
func (s *UserService) TopXP(ctx context.Context, page int) ([]models.RankedUser, utils.Page, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, utils.Page{}, err
	}
	p := utils.Paginate(page, config.DefaultPageSize, int(total))
	rows, err := s.users.XPRanking(ctx, p.Offset, config.DefaultPageSize)
	if err != nil {
		return nil, p, err
	}
	return rows, p, nil
}

// ChangeName renames a user. The new name must match the username rules and
// must not belong to anyone else; changing only the case of your own name is
// allowed.
func (s *UserService) ChangeName(ctx context.Context, ident database.Identifier, newName string) (*models.User, error) {
	newName = strings.TrimSpace(newName)
	user, err := s.users.Search(ctx, ident)
	if err != nil {
		return nil, err
	}

	if !utils.UsernameRegex.MatchString(newName) {
		return nil, database.NewValidationError("username", "must be %d to %d characters of letters, numbers, - or _",
			config.UsernameMinLength, config.UsernameMaxLength)
	}

	taken, err := s.nameTaken(ctx, newName, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &database.ConstraintError{Entity: repositories.UsersTable.Entity, Err: fmt.Errorf("name %q is already in use", newName)}
	}

	if err := s.users.Update(ctx, user.ID, "name", newName); err != nil {
		return nil, err
	}
	user.Name = newName
	return user, nil
}

// ChangeTitle sets a user's title. An empty title clears it.
func (s *UserService) ChangeTitle(ctx context.Context, ident database.Identifier, title string) (*models.User, error) {
	user, err := s.users.Search(ctx, ident)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	var value any
	if title != "" {
		value = title
	}
	if err := s.users.Update(ctx, user.ID, "title", value); err != nil {
		return nil, err
	}
	user.Title = title
	return user, nil
}

// ChangeJoined overrides the join date with a YYYY-MM-DD date.
func (s *UserService) ChangeJoined(ctx context.Context, ident database.Identifier, date string) (*models.User, error) {
	joined, err := utils.DateToTimestamp(date)
	if err != nil {
		return nil, database.NewValidationError("date", "must be formatted as YYYY-MM-DD")
	}
	user, err := s.users.Search(ctx, ident)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user.ID, "joined", joined); err != nil {
		return nil, err
	}
	user.Joined = joined
	return user, nil
}

func (s *UserService) ListTitles(ctx context.Context) ([]string, error) {
	return s.users.DistinctTitles(ctx)
}

// AddXP grants or removes xp. The change is applied atomically.
func (s *UserService) AddXP(ctx context.Context, ident database.Identifier, amount int64) (*models.User, error) {
	user, err := s.users.Search(ctx, ident)
	if err != nil {
		return nil, err
	}
	if err := s.users.AddXP(ctx, user.ID, amount); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, user.ID)
}

// Count is the number of registered users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
