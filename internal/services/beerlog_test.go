package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beerlog/backend/internal/models"
	"github.com/beerlog/backend/internal/repository"
)

type mockLogWriter struct {
	created []*models.BeerLog
	updated []SaveLogInput
}

func (m *mockLogWriter) Create(_ context.Context, l *models.BeerLog) error {
	l.ID = int64(len(m.created) + 1)
	m.created = append(m.created, l)
	return nil
}

func (m *mockLogWriter) Update(_ context.Context, id, userID int64, date time.Time, quantity int, _ int64) error {
	m.updated = append(m.updated, SaveLogInput{ID: id, UserID: userID, Date: date, Quantity: quantity})
	return nil
}

func (m *mockLogWriter) ListByUser(context.Context, int64) ([]*repository.LogWithStatus, error) {
	return nil, nil
}

type fixedPrice int64

func (p fixedPrice) BeerPriceCents(context.Context) (int64, error) { return int64(p), nil }

func TestSaveLog_StampsCostFromCurrentPrice(t *testing.T) {
	store := &mockLogWriter{}
	svc := NewBeerLogService(store, fixedPrice(120), nil)

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	id, err := svc.SaveLog(context.Background(), drinker, SaveLogInput{UserID: 1, Date: date, Quantity: 3})
	if err != nil {
		t.Fatalf("SaveLog: %v", err)
	}
	if id != 1 {
		t.Errorf("id: got %d", id)
	}
	l := store.created[0]
	if l.CostCentsAtTime != 360 {
		t.Errorf("cost: got %d, want 360", l.CostCentsAtTime)
	}
	if l.CreatedByID != drinker.UserID {
		t.Errorf("created_by: got %d", l.CreatedByID)
	}
}

func TestSaveLog_PlainUserCannotWriteForOthers(t *testing.T) {
	store := &mockLogWriter{}
	svc := NewBeerLogService(store, fixedPrice(100), nil)

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	// The form claims user 5; a plain user's log lands on themselves.
	if _, err := svc.SaveLog(context.Background(), drinker, SaveLogInput{UserID: 5, Date: date, Quantity: 1}); err != nil {
		t.Fatalf("SaveLog: %v", err)
	}
	if store.created[0].UserID != drinker.UserID {
		t.Errorf("log owner: got %d, want %d", store.created[0].UserID, drinker.UserID)
	}

	// A manager may write for anyone.
	if _, err := svc.SaveLog(context.Background(), manager, SaveLogInput{UserID: 5, Date: date, Quantity: 1}); err != nil {
		t.Fatalf("SaveLog as manager: %v", err)
	}
	if store.created[1].UserID != 5 {
		t.Errorf("manager-written log owner: got %d, want 5", store.created[1].UserID)
	}
}

func TestSaveLog_UpdateNeverRestamps(t *testing.T) {
	store := &mockLogWriter{}
	svc := NewBeerLogService(store, fixedPrice(999), nil)

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	id, err := svc.SaveLog(context.Background(), drinker, SaveLogInput{ID: 7, UserID: 1, Date: date, Quantity: 4})
	if err != nil {
		t.Fatalf("SaveLog update: %v", err)
	}
	if id != 7 {
		t.Errorf("id: got %d, want 7", id)
	}
	if len(store.created) != 0 {
		t.Error("update must not create a new log")
	}
	if len(store.updated) != 1 || store.updated[0].Quantity != 4 {
		t.Errorf("update payload: %+v", store.updated)
	}
}

func TestSaveLog_Validation(t *testing.T) {
	svc := NewBeerLogService(&mockLogWriter{}, fixedPrice(100), nil)

	_, err := svc.SaveLog(context.Background(), manager, SaveLogInput{UserID: 1, Quantity: 0})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["quantity"]; !ok {
		t.Error("expected quantity field error")
	}
	if _, ok := verr.Fields["date"]; !ok {
		t.Error("expected date field error")
	}
}
