// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jeranaias/advisor-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, func() string { return "ru" }).WithHTTPClient(srv.Client())
}

func TestRequestCarriesLanguage(t *testing.T) {
	var gotLang, gotHeader string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("lang")
		gotHeader = r.Header.Get("Accept-Language")
		json.NewEncoder(w).Encode(CheckUserResponse{Exists: true})
	})

	exists, err := client.CheckUser(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("CheckUser: %v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}
	if gotLang != "ru" {
		t.Errorf("lang query = %q, want ru", gotLang)
	}
	if gotHeader != "ru" {
		t.Errorf("Accept-Language = %q, want ru", gotHeader)
	}
}

func TestErrorBodyParsed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "email already registered"})
	})

	_, err := client.Login(context.Background(), "a@b.c", "pw")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "email already registered" {
		t.Errorf("message = %q, want server error field", apiErr.Message)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
}

func TestErrorBodyUnparsableSynthesized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream dead</html>"))
	})
	client.WithMaxRetries(1)

	_, err := client.History(context.Background(), "c1")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "HTTP 502: Bad Gateway" {
		t.Errorf("message = %q, want synthesized HTTP 502 message", apiErr.Message)
	}
}

func TestUnauthorizedSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
	})

	_, err := client.Profile(context.Background(), "u1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}
}

func TestGetRetriesOn5xx(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(HistoryResponse{ConversationID: "c1"})
	})

	resp, err := client.History(context.Background(), "c1")
	if err != nil {
		t.Fatalf("History after retries: %v", err)
	}
	if resp.ConversationID != "c1" {
		t.Errorf("conversation_id = %q", resp.ConversationID)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestMutatingCallNotRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	})

	_, err := client.SendMessage(context.Background(), SendMessageRequest{Message: "hi", UserID: "u1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("send was attempted %d times, want exactly 1", calls)
	}
}

func TestSendMessageFillsLanguage(t *testing.T) {
	var got SendMessageRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(SendMessageResponse{
			Response:       "Привет",
			MessageID:      "m1",
			Timestamp:      time.Now().Format(time.RFC3339),
			ConversationID: "c1",
		})
	})

	resp, err := client.SendMessage(context.Background(), SendMessageRequest{Message: "hi", UserID: "u1"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got.Language != "ru" {
		t.Errorf("body language = %q, want ru", got.Language)
	}
	msg := resp.AssistantMessage()
	if msg.ID != "m1" || msg.Content != "Привет" {
		t.Errorf("assistant message = %+v", msg)
	}
}

func TestHistoryJoinsAttachments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HistoryResponse{
			ConversationID: "c1",
			Messages: []HistoryMessage{
				{ID: "m2", Role: "assistant", Content: "here", Timestamp: "2025-06-01T12:00:05Z"},
				{ID: "m1", Role: "user", Content: "make me a table", Timestamp: "2025-06-01T12:00:00Z"},
			},
			Count: 2,
			Attachments: []MessageAttachments{
				{MessageID: "m2", Files: []model.FileAttachment{{ID: "f1", Filename: "table.xlsx"}}},
			},
		})
	})

	resp, err := client.History(context.Background(), "c1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	msgs := resp.ToMessages()
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Errorf("messages not sorted by timestamp: %v, %v", msgs[0].ID, msgs[1].ID)
	}
	if len(msgs[1].Files) != 1 || msgs[1].Files[0].Filename != "table.xlsx" {
		t.Errorf("attachment not joined to m2: %+v", msgs[1].Files)
	}
	if len(msgs[0].Files) != 0 {
		t.Errorf("m1 should carry no files: %+v", msgs[0].Files)
	}
}

func TestWithTimeoutBoundsReads(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(CheckTokenResponse{Valid: true})
	})
	client.WithTimeout(20 * time.Millisecond)

	_, err := client.CheckToken(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected deadline error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("want context.DeadlineExceeded, got %v", err)
	}
}

func TestWithTimeoutBoundsMutations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(StatusResponse{Status: "ok"})
	})
	client.WithTimeout(20 * time.Millisecond)

	err := client.DeleteConversation(context.Background(), "c1", "u1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("want context.DeadlineExceeded, got %v", err)
	}
}

func TestCallerDeadlineWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(StatusResponse{Status: "ok"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := client.UpdateConversationContext(ctx, "c1", model.ConversationContext{Region: "Berlin"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("want context.DeadlineExceeded, got %v", err)
	}
}

func TestBodyAtSizeCapAccepted(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 64)
	body, err := readCapped(bytes.NewReader(data), 64)
	if err != nil {
		t.Fatalf("body exactly at the cap must be accepted: %v", err)
	}
	if len(body) != 64 {
		t.Errorf("len(body) = %d, want 64", len(body))
	}

	if _, err := readCapped(bytes.NewReader(append(data, 'y')), 64); err == nil {
		t.Error("body over the cap must be rejected")
	}
}

func TestParseTimeFallsBackToNow(t *testing.T) {
	before := time.Now()
	got := parseTime("not a timestamp")
	if got.Before(before.Add(-time.Second)) {
		t.Errorf("fallback time too old: %v", got)
	}
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := parseTime("2025-06-01T12:00:00Z"); !got.Equal(want) {
		t.Errorf("RFC3339 parse = %v, want %v", got, want)
	}
}
