package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/spf13/afero"
	"github.com/willyosu/willybot/willybot/database"
	"github.com/willyosu/willybot/willybot/database/models"
)

const (
	CodeBackup    = "TASK:BACKUP"
	CodeTempFiles = "TASK:TEMPFILES"
	CodeUsers     = "TASK:USERS"
	CodeQuests    = "TASK:QUESTS"
)

// UserPurger removes users who never earned xp and went quiet.
type UserPurger interface {
	PurgeInactive(ctx context.Context, activeBefore int64) (int64, error)
}

// QuestStore lists and deletes quests past their deadline.
type QuestStore interface {
	GetExpiring(ctx context.Context, grace time.Duration) ([]models.Quest, error)
	Delete(ctx context.Context, id int64) error
}

// AnnouncementRemover deletes a quest announcement.
type AnnouncementRemover interface {
	Remove(ctx context.Context, messageID snowflake.ID) error
}

// Uploader ships a finished backup off the host.
type Uploader interface {
	Upload(ctx context.Context, name string, body io.ReadSeeker) error
}

// BackupJob copies the database file into the backup directory and prunes
// old copies. Pruning and copying are independent; a failed prune does not
// prevent the copy.
type BackupJob struct {
	FS        afero.Fs
	Source    string
	Dir       string
	Retention time.Duration
	Every     time.Duration
	Uploader  Uploader
	Now       func() time.Time

	last string
}

func (j *BackupJob) Code() string            { return CodeBackup }
func (j *BackupJob) Interval() time.Duration { return j.Every }

func (j *BackupJob) Run(ctx context.Context) error {
	if j.Source == "" {
		slog.Warn("Backup skipped, database is not a local file", slog.String("type", "task"))
		return nil
	}
	now := j.now()

	pruneErr := j.prune(now)
	name, copyErr := j.copy(now)
	if copyErr == nil {
		j.last = name
	}
	if copyErr == nil && j.Uploader != nil {
		copyErr = j.upload(ctx, name)
	}
	return errors.Join(pruneErr, copyErr)
}

// Last is the file name of the most recent backup written by this job. It is
// not synchronised with Run: read it only after a one-shot run has returned,
// never while the scheduler is running the same job.
func (j *BackupJob) Last() string {
	return j.last
}

func (j *BackupJob) now() time.Time {
	if j.Now == nil {
		return time.Now()
	}
	return j.Now()
}

func (j *BackupJob) prune(now time.Time) error {
	removed, err := removeOlderThan(j.FS, j.Dir, now.Add(-j.Retention))
	if removed > 0 {
		slog.Info("Pruned old backups",
			slog.String("type", "task"),
			slog.Int("removed", removed))
	}
	if err != nil {
		return fmt.Errorf("failed to prune backups: %w", err)
	}
	return nil
}

func (j *BackupJob) copy(now time.Time) (string, error) {
	if err := j.FS.MkdirAll(j.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	name := fmt.Sprintf("%d.db", now.Unix())

	src, err := j.FS.Open(j.Source)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	dst, err := j.FS.Create(filepath.Join(j.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy database: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return name, nil
}

func (j *BackupJob) upload(ctx context.Context, name string) error {
	f, err := j.FS.Open(filepath.Join(j.Dir, name))
	if err != nil {
		return fmt.Errorf("failed to reopen backup: %w", err)
	}
	defer f.Close()
	return j.Uploader.Upload(ctx, name, f)
}

// TempFilesJob empties the scratch directory of rendered images.
type TempFilesJob struct {
	FS        afero.Fs
	Dir       string
	Retention time.Duration
	Every     time.Duration
	Now       func() time.Time
}

func (j *TempFilesJob) Code() string            { return CodeTempFiles }
func (j *TempFilesJob) Interval() time.Duration { return j.Every }

func (j *TempFilesJob) Run(ctx context.Context) error {
	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}
	_, err := removeOlderThan(j.FS, j.Dir, now.Add(-j.Retention))
	return err
}

// removeOlderThan deletes the regular files directly inside dir modified
// before cutoff. A missing dir holds nothing to remove.
func removeOlderThan(fsys afero.Fs, dir string, cutoff time.Time) (int, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !entry.ModTime().Before(cutoff) {
			continue
		}
		if err := fsys.Remove(filepath.Join(dir, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// InactiveUsersJob deletes users with no xp who have not been active
// within Window.
type InactiveUsersJob struct {
	Users  UserPurger
	Window time.Duration
	Every  time.Duration
	Now    func() time.Time
}

func (j *InactiveUsersJob) Code() string            { return CodeUsers }
func (j *InactiveUsersJob) Interval() time.Duration { return j.Every }

func (j *InactiveUsersJob) Run(ctx context.Context) error {
	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}
	n, err := j.Users.PurgeInactive(ctx, now.Add(-j.Window).Unix())
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Purged inactive users",
			slog.String("type", "task"),
			slog.Int64("removed", n))
	}
	return nil
}

// ExpiredQuestsJob deletes quests whose deadline passed more than Grace ago
// along with their announcements. Announcement removal is best effort.
type ExpiredQuestsJob struct {
	Quests    QuestStore
	Announcer AnnouncementRemover
	Grace     time.Duration
	Every     time.Duration
}

func (j *ExpiredQuestsJob) Code() string            { return CodeQuests }
func (j *ExpiredQuestsJob) Interval() time.Duration { return j.Every }

func (j *ExpiredQuestsJob) Run(ctx context.Context) error {
	quests, err := j.Quests.GetExpiring(ctx, j.Grace)
	if err != nil {
		return err
	}

	var errs []error
	for _, q := range quests {
		if j.Announcer != nil {
			if err := j.Announcer.Remove(ctx, snowflake.ID(q.ID)); err != nil {
				slog.Warn("Failed to remove quest announcement",
					slog.String("type", "task"),
					slog.Int64("quest_id", q.ID),
					slog.Any("error", err))
			}
		}
		if err := j.Quests.Delete(ctx, q.ID); err != nil && !database.IsNotFound(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
