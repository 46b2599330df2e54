package willybot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/willyosu/willybot/willybot/config"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/repositories"
	"github.com/willyosu/willybot/willybot/leveling"
	"github.com/willyosu/willybot/willybot/metrics"
	"github.com/willyosu/willybot/willybot/services"
	"github.com/willyosu/willybot/willybot/tasks"
	"github.com/willyosu/willybot/willybot/utils"
)

const defaultPresence = "with beetles"

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		FS:        afero.NewOsFs(),
		Registry:  prometheus.NewRegistry(),
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	FS        afero.Fs
	DB        *database.DB
	Registry  *prometheus.Registry

	Users   *services.UserService
	Badges  *services.BadgeService
	Quests  *services.QuestService
	Stats   *services.StatsService
	Colors  *services.RoleMenu
	Notifys *services.RoleMenu
	Spaces  *services.SpacesService

	Cooldowns *utils.Cooldowns
	Metrics   *metrics.Collector
	Scheduler *tasks.Scheduler
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

// SetupServices builds the store-backed services and the maintenance jobs.
// channels is used to manage quest announcements and may be nil when no
// platform connection is available, in which case quests can be read and
// purged but not created.
func (b *Bot) SetupServices(ctx context.Context, channels rest.Channels) error {
	if b.DB == nil {
		return fmt.Errorf("database is not open")
	}
	gw := database.NewGateway(b.DB.BunDB())

	users := repositories.NewUserRepository(gw)
	badges := repositories.NewBadgeRepository(gw)
	awards := repositories.NewUserBadgeRepository(gw)
	quests := repositories.NewQuestRepository(gw, time.Now)
	userQuests := repositories.NewUserQuestRepository(gw)

	var announcer services.Announcer
	if channels != nil && b.Cfg.Quests.Channel != 0 {
		announcer = services.NewChannelAnnouncer(channels, b.Cfg.Quests.Channel)
	}

	b.Users = services.NewUserService(users, awards, leveling.NewCalculator(nil))
	b.Badges = services.NewBadgeService(badges, awards, users)
	b.Quests = services.NewQuestService(quests, userQuests, users, announcer)
	b.Stats = services.NewStatsService(users, badges, quests, b.DB, b.FS, b.DB.Path())
	b.Colors = services.NewRoleMenu("color", b.Cfg.Roles.Colors, true)
	b.Notifys = services.NewRoleMenu("notify role", b.Cfg.Roles.Notifys, false)

	cooldowns, err := utils.NewCooldowns(config.CooldownCacheSize, config.CommandCooldown)
	if err != nil {
		return err
	}
	b.Cooldowns = cooldowns
	if b.Metrics == nil {
		b.Metrics = metrics.NewCollector(b.Registry)
	}

	if b.Cfg.Spaces.Enabled() {
		spaces, err := services.NewSpacesService(ctx,
			b.Cfg.Spaces.Key,
			b.Cfg.Spaces.Secret,
			b.Cfg.Spaces.Region,
			b.Cfg.Spaces.Bucket,
			b.Cfg.Spaces.Root,
		)
		if err != nil {
			return err
		}
		b.Spaces = spaces
	}

	b.Scheduler = tasks.NewScheduler(b.Metrics, b.jobs(users, quests, announcer)...)
	return nil
}

func (b *Bot) jobs(users tasks.UserPurger, quests tasks.QuestStore, announcer services.Announcer) []tasks.Job {
	t := b.Cfg.Tasks

	backup := &tasks.BackupJob{
		FS:        b.FS,
		Source:    b.DB.Path(),
		Dir:       b.Cfg.Paths.Backups,
		Retention: t.BackupRetention.Duration,
		Every:     t.BackupInterval.Duration,
	}
	if b.Spaces != nil {
		backup.Uploader = b.Spaces
	}

	expired := &tasks.ExpiredQuestsJob{
		Quests: quests,
		Grace:  t.QuestExpiryGrace.Duration,
		Every:  t.QuestPurgeInterval.Duration,
	}
	if announcer != nil {
		expired.Announcer = announcer
	}

	return []tasks.Job{
		backup,
		&tasks.TempFilesJob{
			FS:        b.FS,
			Dir:       b.Cfg.Paths.Temp,
			Retention: t.TempRetention.Duration,
			Every:     t.TempPurgeInterval.Duration,
		},
		&tasks.InactiveUsersJob{
			Users:  users,
			Window: t.InactiveUserWindow.Duration,
			Every:  t.UserPurgeInterval.Duration,
		},
		expired,
	}
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("WillyBot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.SetGame(ctx, defaultPresence); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}

// SetGame changes the "Playing ..." status.
func (b *Bot) SetGame(ctx context.Context, game string) error {
	return b.Client.SetPresence(ctx,
		gateway.WithPlayingActivity(game),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline))
}

// LookupMember fetches a member of the configured guild, for registering
// people on first lookup.
func (b *Bot) LookupMember(ctx context.Context, id int64) (services.Member, error) {
	member, err := b.Client.Rest().GetMember(b.Cfg.Bot.GuildID, snowflake.ID(id), rest.WithCtx(ctx))
	if err != nil {
		return services.Member{}, err
	}
	return services.MemberFromDiscord(member.User, member.JoinedAt), nil
}
