package transcript_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"chemchat/internal/events"
	"chemchat/internal/params"
	"chemchat/internal/transcript"
	"chemchat/internal/transcript/mocks"
)

var t0 = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func seededLog(t *testing.T, rec *events.Recorder, n int) *transcript.Log {
	t.Helper()
	log := transcript.NewLog("", rec)
	ctx := context.Background()
	for i := 0; i < n; i++ {
		at := t0.Add(time.Duration(i) * time.Minute)
		log.Append(ctx, transcript.NewMessage(transcript.RoleUser, "q", at))
		log.Append(ctx, transcript.NewMessage(transcript.RoleAssistant, "a", at))
		log.RecordExchange(transcript.Exchange{
			UserText:      "q",
			AssistantText: "a",
			SentAt:        at,
			Parameters:    params.Snapshot{MaxLength: 200 + i, Temperature: 0.7, TopP: 0.9},
		})
	}
	return log
}

func TestNewMessage(t *testing.T) {
	local := time.Date(2026, 10, 14, 11, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	a := transcript.NewMessage(transcript.RoleUser, "hi", local)
	b := transcript.NewMessage(transcript.RoleUser, "hi", local)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("NewMessage() IDs should be unique and non-empty: %q %q", a.ID, b.ID)
	}
	if a.SentAt.Location() != time.UTC || !a.SentAt.Equal(local) {
		t.Errorf("NewMessage() SentAt = %v, want %v in UTC", a.SentAt, local)
	}
}

func TestLog_AppendPublishesInOrder(t *testing.T) {
	rec := &events.Recorder{}
	log := transcript.NewLog("", rec)
	ctx := context.Background()

	first := transcript.NewMessage(transcript.RoleUser, "What is the boiling point of ethanol?", t0)
	second := transcript.NewMessage(transcript.RoleError, "Model not loaded", t0)
	log.Append(ctx, first)
	log.Append(ctx, second)

	msgs := log.Messages()
	if len(msgs) != 2 || msgs[0] != first || msgs[1] != second {
		t.Fatalf("Messages() = %+v, want [first second]", msgs)
	}

	appended := rec.OfType(events.TypeMessageAppended)
	if len(appended) != 2 {
		t.Fatalf("published %d message events, want 2", len(appended))
	}
	if appended[0].MessageID != first.ID || appended[1].Role != "error" || appended[1].Text != "Model not loaded" {
		t.Errorf("unexpected events: %+v", appended)
	}
	if len(log.Exchanges()) != 0 {
		t.Error("Append() must not record exchanges")
	}
}

func TestLog_ExportSnapshot(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		log := transcript.NewLog("", nil)
		log.Append(context.Background(), transcript.NewMessage(transcript.RoleError, "boom", t0))

		_, err := log.ExportSnapshot(t0)
		if !errors.Is(err, transcript.ErrEmptyHistory) {
			t.Errorf("ExportSnapshot() error = %v, want ErrEmptyHistory", err)
		}
	})

	t.Run("returns all exchanges in order", func(t *testing.T) {
		log := seededLog(t, &events.Recorder{}, 3)
		exportedAt := t0.Add(time.Hour)

		snap, err := log.ExportSnapshot(exportedAt)
		if err != nil {
			t.Fatalf("ExportSnapshot() error = %v", err)
		}
		if snap.Model != transcript.DefaultModelID {
			t.Errorf("Model = %q, want %q", snap.Model, transcript.DefaultModelID)
		}
		if !snap.ExportedAt.Equal(exportedAt) {
			t.Errorf("ExportedAt = %v, want %v", snap.ExportedAt, exportedAt)
		}
		if len(snap.Exchanges) != 3 {
			t.Fatalf("len(Exchanges) = %d, want 3", len(snap.Exchanges))
		}
		for i, ex := range snap.Exchanges {
			if ex.Parameters.MaxLength != 200+i {
				t.Errorf("exchange %d out of order: %+v", i, ex)
			}
		}
	})

	t.Run("idempotent and detached", func(t *testing.T) {
		log := seededLog(t, &events.Recorder{}, 2)
		first, _ := log.ExportSnapshot(t0)
		first.Exchanges[0].AssistantText = "tampered"

		second, err := log.ExportSnapshot(t0)
		if err != nil {
			t.Fatalf("ExportSnapshot() error = %v", err)
		}
		if second.Exchanges[0].AssistantText != "a" {
			t.Error("mutating a snapshot must not alter the log")
		}
		if log.Len() != 4 {
			t.Errorf("Len() = %d, want 4", log.Len())
		}
	})

	t.Run("round trips through JSON", func(t *testing.T) {
		log := seededLog(t, &events.Recorder{}, 2)
		snap, _ := log.ExportSnapshot(t0)

		raw, err := json.Marshal(snap)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		for _, key := range []string{"timestamp", "model", "chat_history"} {
			if _, ok := doc[key]; !ok {
				t.Errorf("exported document missing %q", key)
			}
		}

		var back transcript.Snapshot
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if !reflect.DeepEqual(back, snap) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, snap)
		}
	})

	t.Run("custom model id", func(t *testing.T) {
		log := transcript.NewLog("chemllm-test", nil)
		log.RecordExchange(transcript.Exchange{UserText: "q", AssistantText: "a", SentAt: t0})
		snap, err := log.ExportSnapshot(t0)
		if err != nil {
			t.Fatalf("ExportSnapshot() error = %v", err)
		}
		if snap.Model != "chemllm-test" {
			t.Errorf("Model = %q, want chemllm-test", snap.Model)
		}
	})
}

func TestLog_Clear(t *testing.T) {
	tests := []struct {
		name        string
		confirm     bool
		confirmErr  error
		wantCleared bool
		wantErr     bool
	}{
		{name: "confirmed", confirm: true, wantCleared: true},
		{name: "declined", confirm: false},
		{name: "gate failure", confirmErr: context.Canceled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			rec := &events.Recorder{}
			log := seededLog(t, rec, 2)
			beforeMsgs := log.Messages()
			beforeExchanges := log.Exchanges()
			rec.Reset()

			confirmer := mocks.NewMockConfirmer(ctrl)
			confirmer.EXPECT().
				Confirm(gomock.Any(), transcript.ClearPrompt).
				Return(tt.confirm, tt.confirmErr)

			cleared, err := log.Clear(context.Background(), confirmer)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Clear() error = %v, wantErr %v", err, tt.wantErr)
			}
			if cleared != tt.wantCleared {
				t.Errorf("Clear() = %v, want %v", cleared, tt.wantCleared)
			}

			if tt.wantCleared {
				if log.Len() != 0 || len(log.Exchanges()) != 0 {
					t.Error("confirmed clear must empty both logs")
				}
				got := rec.OfType(events.TypeTranscriptCleared)
				if len(got) != 1 || got[0].Text != transcript.WelcomeText {
					t.Errorf("expected one cleared event with welcome text, got %+v", rec.Events())
				}
				if _, err := log.ExportSnapshot(t0); !errors.Is(err, transcript.ErrEmptyHistory) {
					t.Errorf("ExportSnapshot() after clear error = %v, want ErrEmptyHistory", err)
				}
				return
			}

			if !reflect.DeepEqual(log.Messages(), beforeMsgs) || !reflect.DeepEqual(log.Exchanges(), beforeExchanges) {
				t.Error("declined clear must leave the log unchanged")
			}
			if len(rec.Events()) != 0 {
				t.Errorf("declined clear published events: %+v", rec.Events())
			}
		})
	}
}

func TestConfirmFunc(t *testing.T) {
	var gotPrompt string
	f := transcript.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		gotPrompt = prompt
		return true, nil
	})
	ok, err := f.Confirm(context.Background(), "sure?")
	if err != nil || !ok || gotPrompt != "sure?" {
		t.Errorf("ConfirmFunc.Confirm() = %v, %v (prompt %q)", ok, err, gotPrompt)
	}
}
