package service

import (
	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/repository"
)

// StatsService 用户统计数据聚合
type StatsService struct {
	repos *repository.Repositories
}

// NewStatsService 创建统计服务
func NewStatsService(repos *repository.Repositories) *StatsService {
	return &StatsService{repos: repos}
}

// UserStats 汇总一个用户的观影、片单、社交统计
func (s *StatsService) UserStats(userID int) (*model.UserStats, error) {
	total, watched, avgRating, err := s.repos.UserMovie.StatsByUser(userID)
	if err != nil {
		return nil, err
	}

	watchlistCount, err := s.repos.Watchlist.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.repos.Follow.CountFollowers(userID)
	if err != nil {
		return nil, err
	}

	following, err := s.repos.Follow.CountFollowing(userID)
	if err != nil {
		return nil, err
	}

	return &model.UserStats{
		UserID:         userID,
		TotalMovies:    total,
		WatchedCount:   watched,
		AverageRating:  avgRating,
		WatchlistCount: watchlistCount,
		FollowersCount: followers,
		FollowingCount: following,
	}, nil
}
