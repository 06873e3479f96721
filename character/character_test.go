package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/chimerakang/authgate"
	"github.com/chimerakang/authgate/character"
)

func TestAddAssignsDistinctIDs(t *testing.T) {
	// Frozen clock: every allocation collides and must be bumped.
	frozen := time.Now()
	s := character.NewStore(character.WithClock(func() time.Time { return frozen }))
	ctx := context.Background()

	a := s.Add(ctx, authgate.Character{Name: "Aragorn", Lastname: "Elessar"})
	b := s.Add(ctx, authgate.Character{Name: "Boromir", Lastname: "Hurinson"})

	if a.ID == 0 || b.ID == 0 {
		t.Fatal("id not assigned")
	}
	if a.ID == b.ID {
		t.Fatalf("duplicate id %d", a.ID)
	}
	if b.ID < a.ID {
		t.Errorf("ids not increasing: %d then %d", a.ID, b.ID)
	}
}

func TestListOrderedByID(t *testing.T) {
	s := character.NewStore()
	ctx := context.Background()

	if got := s.List(ctx); len(got) != 0 {
		t.Fatalf("List on empty store = %v", got)
	}

	first := s.Add(ctx, authgate.Character{Name: "Aragorn", Lastname: "Elessar"})
	second := s.Add(ctx, authgate.Character{Name: "Legolas", Lastname: "Thranduilion"})

	got := s.List(ctx)
	if len(got) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("List order = [%d %d], want [%d %d]", got[0].ID, got[1].ID, first.ID, second.ID)
	}
}

func TestGet(t *testing.T) {
	s := character.NewStore()
	ctx := context.Background()

	if _, ok := s.Get(ctx, 999999); ok {
		t.Fatal("found a character that was never added")
	}

	added := s.Add(ctx, authgate.Character{Name: "Aragorn", Lastname: "Elessar"})
	got, ok := s.Get(ctx, added.ID)
	if !ok {
		t.Fatal("character not found")
	}
	if got != added {
		t.Errorf("Get = %+v, want %+v", got, added)
	}
}

func TestUpdate(t *testing.T) {
	s := character.NewStore()
	ctx := context.Background()

	if _, ok := s.Update(ctx, 999999, authgate.Character{Name: "Nobody", Lastname: "Noname"}); ok {
		t.Fatal("updated a character that was never added")
	}

	added := s.Add(ctx, authgate.Character{Name: "Aragorn", Lastname: "Elessar"})
	updated, ok := s.Update(ctx, added.ID, authgate.Character{ID: 12345, Name: "Strider", Lastname: "Telcontar"})
	if !ok {
		t.Fatal("update failed")
	}
	if updated.ID != added.ID {
		t.Errorf("update changed id: %d -> %d", added.ID, updated.ID)
	}
	if updated.Name != "Strider" || updated.Lastname != "Telcontar" {
		t.Errorf("fields not replaced: %+v", updated)
	}
}

func TestDelete(t *testing.T) {
	s := character.NewStore()
	ctx := context.Background()

	if s.Delete(ctx, 999999) {
		t.Fatal("deleted a character that was never added")
	}

	added := s.Add(ctx, authgate.Character{Name: "Aragorn", Lastname: "Elessar"})
	if !s.Delete(ctx, added.ID) {
		t.Fatal("delete failed")
	}
	if _, ok := s.Get(ctx, added.ID); ok {
		t.Error("character still present after delete")
	}
	if s.Delete(ctx, added.ID) {
		t.Error("second delete reported success")
	}
}
