package repository

import (
	"context"
	"emo-support-go/internal/model"
	"fmt"
	"sync"
	"testing"
	"time"
)

func turn(i int) model.ChatTurn {
	return model.ChatTurn{Role: model.RoleUser, Content: fmt.Sprintf("message %d", i), Timestamp: time.Unix(int64(i), 0)}
}

func TestMemoryRepository_GetMissingSession(t *testing.T) {
	repo := NewMemoryConversationRepository(20)

	turns, err := repo.Get(context.Background(), "nobody:default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turns == nil || len(turns) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", turns)
	}
}

func TestMemoryRepository_KeepsLastTwenty(t *testing.T) {
	repo := NewMemoryConversationRepository(20)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if err := repo.Append(ctx, "u:s", turn(i)); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	turns, err := repo.Get(ctx, "u:s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 20 {
		t.Fatalf("expected 20 turns, got %d", len(turns))
	}
	for i, got := range turns {
		want := fmt.Sprintf("message %d", i+5)
		if got.Content != want {
			t.Errorf("turn %d: expected %q, got %q", i, want, got.Content)
		}
	}
}

func TestMemoryRepository_TwentyFirstAppendEvictsOldest(t *testing.T) {
	repo := NewMemoryConversationRepository(20)
	ctx := context.Background()

	for i := 0; i < 21; i++ {
		_ = repo.Append(ctx, "u:s", turn(i))
	}

	turns, _ := repo.Get(ctx, "u:s")
	if len(turns) != 20 {
		t.Fatalf("expected 20 turns, got %d", len(turns))
	}
	if turns[0].Content != "message 1" {
		t.Errorf("expected oldest entry evicted, first is %q", turns[0].Content)
	}
	if turns[19].Content != "message 20" {
		t.Errorf("expected newest entry last, got %q", turns[19].Content)
	}
}

func TestMemoryRepository_AppendPairTrims(t *testing.T) {
	repo := NewMemoryConversationRepository(3)
	ctx := context.Background()

	_ = repo.Append(ctx, "u:s", turn(0), turn(1))
	_ = repo.Append(ctx, "u:s", turn(2), turn(3))

	turns, _ := repo.Get(ctx, "u:s")
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Content != "message 1" || turns[2].Content != "message 3" {
		t.Errorf("unexpected turns: %+v", turns)
	}
}

func TestMemoryRepository_SessionsAreIsolated(t *testing.T) {
	repo := NewMemoryConversationRepository(20)
	ctx := context.Background()

	_ = repo.Append(ctx, "alice:default", turn(1))
	_ = repo.Append(ctx, "bob:default", turn(2), turn(3))

	alice, _ := repo.Get(ctx, "alice:default")
	bob, _ := repo.Get(ctx, "bob:default")
	if len(alice) != 1 || len(bob) != 2 {
		t.Errorf("expected 1 and 2 turns, got %d and %d", len(alice), len(bob))
	}
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	repo := NewMemoryConversationRepository(20)
	ctx := context.Background()
	_ = repo.Append(ctx, "u:s", turn(1))

	turns, _ := repo.Get(ctx, "u:s")
	turns[0].Content = "mutated"

	again, _ := repo.Get(ctx, "u:s")
	if again[0].Content != "message 1" {
		t.Errorf("stored turn was mutated through Get result: %q", again[0].Content)
	}
}

func TestMemoryRepository_ConcurrentAppends(t *testing.T) {
	repo := NewMemoryConversationRepository(1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Append(ctx, "shared:default", turn(i))
		}(i)
	}
	wg.Wait()

	turns, _ := repo.Get(ctx, "shared:default")
	if len(turns) != 50 {
		t.Errorf("expected 50 turns after concurrent appends, got %d", len(turns))
	}
}
