package services

import (
	"context"
	"time"

	"github.com/beerlog/backend/internal/repository"
)

// Month-to-date leaderboard size and the cutoff below which a personal
// rank is not reported (only the podium gets a medal).
const (
	rankingLimit = 10
	medalCutoff  = 3
)

// RankedUser is one leaderboard row.
type RankedUser struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Rank     int    `json:"rank"`
}

// RankingLogStore reads grouped monthly quantities.
type RankingLogStore interface {
	QuantitiesSince(ctx context.Context, since time.Time) ([]repository.UserQuantity, error)
}

// NameResolver maps user ids to display names.
type NameResolver interface {
	DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type RankingService struct {
	logs  RankingLogStore
	users NameResolver
	now   func() time.Time
}

func NewRankingService(logs RankingLogStore, users NameResolver) *RankingService {
	return &RankingService{logs: logs, users: users, now: time.Now}
}

// competitionRanks assigns ranks to quantities already sorted highest
// first: ties share a rank and the next distinct quantity gets its
// 1-based position (1224, not 1223).
func competitionRanks(data []repository.UserQuantity) []RankedUser {
	ranked := make([]RankedUser, 0, len(data))
	rank := 1
	for i, q := range data {
		if i > 0 && q.Quantity != data[i-1].Quantity {
			rank = i + 1
		}
		ranked = append(ranked, RankedUser{UserID: q.UserID, Quantity: q.Quantity, Rank: rank})
	}
	return ranked
}

func (s *RankingService) monthStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Rankings returns the month-to-date top ten with display names.
func (s *RankingService) Rankings(ctx context.Context) ([]RankedUser, error) {
	data, err := s.logs.QuantitiesSince(ctx, s.monthStart())
	if err != nil {
		return nil, err
	}
	ranked := competitionRanks(data)
	if len(ranked) > rankingLimit {
		ranked = ranked[:rankingLimit]
	}
	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.UserID
	}
	names, err := s.users.DisplayNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range ranked {
		if name, ok := names[ranked[i].UserID]; ok {
			ranked[i].Name = name
		} else {
			ranked[i].Name = "Unknown"
		}
	}
	return ranked, nil
}

// CurrentRank returns the user's month-to-date rank, or ok=false when
// the user has no logs this month or sits below the medal cutoff.
func (s *RankingService) CurrentRank(ctx context.Context, userID int64) (int, bool, error) {
	data, err := s.logs.QuantitiesSince(ctx, s.monthStart())
	if err != nil {
		return 0, false, err
	}
	for _, r := range competitionRanks(data) {
		if r.UserID == userID {
			if r.Rank > medalCutoff {
				return 0, false, nil
			}
			return r.Rank, true, nil
		}
	}
	return 0, false, nil
}
