package storage

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"chemchat/internal/params"
	"chemchat/internal/transcript"
)

func sampleSnapshot(at time.Time, n int) transcript.Snapshot {
	snap := transcript.Snapshot{ExportedAt: at, Model: transcript.DefaultModelID}
	for i := 0; i < n; i++ {
		snap.Exchanges = append(snap.Exchanges, transcript.Exchange{
			UserText:      "What is the boiling point of ethanol?",
			AssistantText: "78.37 °C",
			SentAt:        at.Add(-time.Duration(n-i) * time.Minute),
			Parameters:    params.Snapshot{MaxLength: 200, Temperature: 0.7, TopP: 0.9},
		})
	}
	return snap
}

func TestExportRepo_SaveAndLoad(t *testing.T) {
	repo := NewExportRepo(openTestDB(t))
	ctx := context.Background()
	snap := sampleSnapshot(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), 2)

	location, err := repo.Save(ctx, snap)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(location, LocationPrefix) {
		t.Errorf("Save() location = %q, want %q prefix", location, LocationPrefix)
	}

	got, err := repo.Load(ctx, location)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("Load() = %+v, want %+v", got, snap)
	}

	rec, err := repo.Get(ctx, strings.TrimPrefix(location, LocationPrefix))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.ExchangeCount != 2 || rec.Model != transcript.DefaultModelID {
		t.Errorf("Get() = %+v", rec)
	}
	if !rec.ExportedAt.Equal(snap.ExportedAt) {
		t.Errorf("Get() ExportedAt = %v, want %v", rec.ExportedAt, snap.ExportedAt)
	}
}

func TestExportRepo_GetNotFound(t *testing.T) {
	repo := NewExportRepo(openTestDB(t))

	rec, err := repo.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if rec != nil {
		t.Errorf("Get() = %+v, want nil", rec)
	}

	if _, err := repo.Load(context.Background(), "sqlite:missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestExportRepo_List(t *testing.T) {
	repo := NewExportRepo(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := repo.Save(ctx, sampleSnapshot(base.Add(time.Duration(i)*time.Hour), i+1)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		limit     int
		wantCount int
	}{
		{name: "all", limit: 10, wantCount: 3},
		{name: "limited", limit: 2, wantCount: 2},
		{name: "default limit", limit: 0, wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.List(ctx, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != tt.wantCount {
				t.Fatalf("List() returned %d records, want %d", len(records), tt.wantCount)
			}
			if records[0].ExchangeCount != 3 {
				t.Errorf("List() newest first: got exchange_count %d, want 3", records[0].ExchangeCount)
			}
			for _, rec := range records {
				if rec.Document != nil {
					t.Errorf("List() should not load documents")
				}
			}
		})
	}
}
