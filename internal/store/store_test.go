package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InitSchema(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureProfile_CounterIncrementsOncePerCall(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := Profile{UserID: 1, Username: "gio", FirstName: "Giorgi"}

	if err := s.EnsureProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Stats(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.MessageCount != 2 {
		t.Errorf("message count = %d, want 2", stats.MessageCount)
	}
	if stats.PreferredLanguage != "mixed" {
		t.Errorf("preferred language = %q, want mixed", stats.PreferredLanguage)
	}
	if stats.MemberSince.IsZero() {
		t.Error("member since is zero")
	}
}

func TestEnsureProfile_KeepsCreatedAt(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := Profile{UserID: 7, Username: "n"}

	if err := s.EnsureProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	first, err := s.Stats(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	second, err := s.Stats(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !first.MemberSince.Equal(second.MemberSince) {
		t.Errorf("created_at changed on upsert: %v -> %v", first.MemberSince, second.MemberSince)
	}
}

func TestStats_UnknownUser(t *testing.T) {
	s := testStore(t)
	if _, err := s.Stats(context.Background(), 404); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("want ErrProfileNotFound, got %v", err)
	}
}

func TestAppendTurn_PrunesToContextLength(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := int64(2)
	if err := s.EnsureProfile(ctx, Profile{UserID: userID}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 25; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		if err := s.AppendTurn(ctx, userID, role, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatal(err)
		}
	}

	turns, err := s.Context(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 20 {
		t.Fatalf("retained %d turns, want 20", len(turns))
	}
	// Most recent 20 survive, oldest first.
	if turns[0].Content != "msg 5" {
		t.Errorf("oldest retained = %q, want %q", turns[0].Content, "msg 5")
	}
	if turns[19].Content != "msg 24" {
		t.Errorf("newest retained = %q, want %q", turns[19].Content, "msg 24")
	}
}

func TestAppendTurn_HonorsCustomContextLength(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := int64(3)
	if err := s.EnsureProfile(ctx, Profile{UserID: userID}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetContextLength(ctx, userID, 3); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 6; i++ {
		if err := s.AppendTurn(ctx, userID, RoleUser, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatal(err)
		}
	}

	turns, err := s.Context(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 3 {
		t.Fatalf("retained %d turns, want 3", len(turns))
	}
	for i, want := range []string{"m3", "m4", "m5"} {
		if turns[i].Content != want {
			t.Errorf("turns[%d] = %q, want %q", i, turns[i].Content, want)
		}
	}
}

func TestAppendTurn_WithoutPreferencesDefaultsTo20(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	// No EnsureProfile: no preferences row exists for this user.
	userID := int64(9)

	for i := 0; i < 22; i++ {
		if err := s.AppendTurn(ctx, userID, RoleUser, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	turns, err := s.Context(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 20 {
		t.Fatalf("retained %d turns, want default 20", len(turns))
	}
}

func TestTurnContentRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	content := "ხაჭაპური & <b>cheese</b>\nline two 🤖"

	if err := s.AppendTurn(ctx, 4, RoleAssistant, content); err != nil {
		t.Fatal(err)
	}
	turns, err := s.Context(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 || turns[0].Role != RoleAssistant || turns[0].Content != content {
		t.Fatalf("round trip mismatch: %+v", turns)
	}
}

func TestClearContext(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	userID := int64(5)

	if err := s.AppendTurn(ctx, userID, RoleUser, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearContext(ctx, userID); err != nil {
		t.Fatal(err)
	}
	turns, err := s.Context(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 0 {
		t.Fatalf("context not empty after clear: %+v", turns)
	}

	// Idempotent on empty state.
	if err := s.ClearContext(ctx, userID); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
}

func TestClearContext_OtherUsersUntouched(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.AppendTurn(ctx, 10, RoleUser, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendTurn(ctx, 11, RoleUser, "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearContext(ctx, 10); err != nil {
		t.Fatal(err)
	}
	turns, err := s.Context(ctx, 11)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 1 {
		t.Fatalf("user 11 context affected by clearing user 10: %+v", turns)
	}
}

func TestPreferences_DefaultsWhenAbsent(t *testing.T) {
	s := testStore(t)
	p, err := s.Preferences(context.Background(), 123)
	if err != nil {
		t.Fatal(err)
	}
	if p.ContextLength != 20 || p.ResponseStyle != "balanced" || p.Timezone != "UTC" {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func TestCountActiveSince(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.EnsureProfile(ctx, Profile{UserID: 1}); err != nil {
		t.Fatal(err)
	}
	n, err := s.CountActiveSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("active count = %d, want 1", n)
	}
	n, err = s.CountActiveSince(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("future active count = %d, want 0", n)
	}
}
