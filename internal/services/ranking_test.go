package services

import (
	"context"
	"testing"
	"time"

	"github.com/beerlog/backend/internal/repository"
)

type mockRankingLogs struct {
	data  []repository.UserQuantity
	since time.Time
}

func (m *mockRankingLogs) QuantitiesSince(_ context.Context, since time.Time) ([]repository.UserQuantity, error) {
	m.since = since
	return m.data, nil
}

type mockNames map[int64]string

func (m mockNames) DisplayNames(_ context.Context, ids []int64) (map[int64]string, error) {
	out := map[int64]string{}
	for _, id := range ids {
		if name, ok := m[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func newRankingFixture(data []repository.UserQuantity, names mockNames) (*RankingService, *mockRankingLogs) {
	logs := &mockRankingLogs{data: data}
	svc := NewRankingService(logs, names)
	svc.now = func() time.Time { return time.Date(2024, 6, 17, 15, 30, 0, 0, time.UTC) }
	return svc, logs
}

func TestRankings_CompetitionTies(t *testing.T) {
	// 10, 10, 7 must rank 1, 1, 3 — ties consume positions.
	svc, logs := newRankingFixture([]repository.UserQuantity{
		{UserID: 1, Quantity: 10},
		{UserID: 2, Quantity: 10},
		{UserID: 3, Quantity: 7},
	}, mockNames{1: "Ann Ale", 2: "Bob Bock", 3: "Cid Cask"})

	ranked, err := svc.Rankings(context.Background())
	if err != nil {
		t.Fatalf("Rankings: %v", err)
	}
	wantRanks := []int{1, 1, 3}
	for i, want := range wantRanks {
		if ranked[i].Rank != want {
			t.Errorf("position %d: rank %d, want %d", i, ranked[i].Rank, want)
		}
	}
	if ranked[0].Name != "Ann Ale" {
		t.Errorf("name: got %q", ranked[0].Name)
	}

	// The grouping window starts on the first of the current month.
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !logs.since.Equal(want) {
		t.Errorf("since: got %v, want %v", logs.since, want)
	}
}

func TestRankings_TopTenAndUnknownNames(t *testing.T) {
	var data []repository.UserQuantity
	for i := 1; i <= 12; i++ {
		data = append(data, repository.UserQuantity{UserID: int64(i), Quantity: 20 - i})
	}
	svc, _ := newRankingFixture(data, mockNames{1: "Ann Ale"})

	ranked, err := svc.Rankings(context.Background())
	if err != nil {
		t.Fatalf("Rankings: %v", err)
	}
	if len(ranked) != 10 {
		t.Fatalf("expected top 10, got %d", len(ranked))
	}
	if ranked[1].Name != "Unknown" {
		t.Errorf("missing user should render as Unknown, got %q", ranked[1].Name)
	}
}

func TestCurrentRank(t *testing.T) {
	svc, _ := newRankingFixture([]repository.UserQuantity{
		{UserID: 1, Quantity: 10},
		{UserID: 2, Quantity: 10},
		{UserID: 3, Quantity: 7},
		{UserID: 4, Quantity: 5},
	}, mockNames{})
	ctx := context.Background()

	rank, ok, err := svc.CurrentRank(ctx, 2)
	if err != nil || !ok || rank != 1 {
		t.Errorf("user 2: got (%d, %v, %v), want (1, true, nil)", rank, ok, err)
	}
	rank, ok, err = svc.CurrentRank(ctx, 3)
	if err != nil || !ok || rank != 3 {
		t.Errorf("user 3: got (%d, %v, %v), want (3, true, nil)", rank, ok, err)
	}

	// Below the medal cutoff: present but not reported.
	_, ok, err = svc.CurrentRank(ctx, 4)
	if err != nil || ok {
		t.Errorf("user 4 below cutoff: ok=%v, err=%v", ok, err)
	}

	// Absent this month.
	_, ok, err = svc.CurrentRank(ctx, 42)
	if err != nil || ok {
		t.Errorf("absent user: ok=%v, err=%v", ok, err)
	}
}

func TestCurrentRank_EmptyMonth(t *testing.T) {
	svc, _ := newRankingFixture(nil, mockNames{})
	_, ok, err := svc.CurrentRank(context.Background(), 1)
	if err != nil || ok {
		t.Errorf("empty month: ok=%v, err=%v", ok, err)
	}
}
