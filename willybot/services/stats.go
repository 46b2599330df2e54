package services

import (
	"context"
	"errors"
	"io/fs"

	"github.com/spf13/afero"
)

// Counter is anything that can report a row count.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Sizer reports the storage size of the database.
type Sizer interface {
	Size(ctx context.Context) (int64, error)
}

type DatabaseStats struct {
	Users  int64
	Badges int64
	Quests int64
	Bytes  int64
}

// StatsService reports table sizes. For a file backed store the size is
// read from the file system, counting the write-ahead log if present.
type StatsService struct {
	users  Counter
	badges Counter
	quests Counter
	sizer  Sizer
	fs     afero.Fs
	path   string
}

func NewStatsService(users, badges, quests Counter, sizer Sizer, fsys afero.Fs, path string) *StatsService {
	return &StatsService{
		users:  users,
		badges: badges,
		quests: quests,
		sizer:  sizer,
		fs:     fsys,
		path:   path,
	}
}

func (s *StatsService) Collect(ctx context.Context) (*DatabaseStats, error) {
	var (
		stats DatabaseStats
		err   error
	)
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Badges, err = s.badges.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Quests, err = s.quests.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Bytes, err = s.size(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatsService) size(ctx context.Context) (int64, error) {
	if s.path == "" || s.fs == nil {
		return s.sizer.Size(ctx)
	}

	var total int64
	for _, name := range []string{s.path, s.path + "-wal"} {
		info, err := s.fs.Stat(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
