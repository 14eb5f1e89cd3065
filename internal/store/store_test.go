package store

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/bizdir/internal/core"
)

func ptr[T any](v T) *T { return &v }

func sampleInput(name string) core.BusinessInput {
	return core.BusinessInput{
		Name:       name,
		StreetName: "Dorpsstraat 1",
		Zipcode:    "1234 AB",
		City:       "Utrecht",
		Tags:       []string{"horeca"},
	}
}

// runStoreContract checks the behaviour every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) core.Store) {
	ctx := context.Background()

	t.Run("create assigns unique ids and defaults", func(t *testing.T) {
		s := newStore(t)
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			b, err := s.Create(ctx, sampleInput("Bakker"))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if b.ID == "" || seen[b.ID] {
				t.Fatalf("id %q is empty or duplicated", b.ID)
			}
			seen[b.ID] = true
			if !b.IsActive {
				t.Error("IsActive should default to true")
			}
		}
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, "does-not-exist"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get err = %v, want ErrNotFound", err)
		}
	})

	t.Run("update changes only present fields", func(t *testing.T) {
		s := newStore(t)
		in := sampleInput("Bakker")
		in.Email = "info@bakker.nl"
		b, err := s.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := s.Update(ctx, b.ID, core.BusinessPatch{Comment: ptr("closed mondays")})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		want := b
		want.Comment = "closed mondays"
		if got.Name != want.Name || got.Email != want.Email || got.City != want.City ||
			got.Comment != want.Comment || got.IsActive != want.IsActive || len(got.Tags) != 1 {
			t.Errorf("Update = %+v, want %+v", got, want)
		}

		got, err = s.Update(ctx, b.ID, core.BusinessPatch{IsActive: ptr(false), Tags: &[]string{}})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got.IsActive || len(got.Tags) != 0 || got.Comment != "closed mondays" {
			t.Errorf("second Update = %+v", got)
		}
	})

	t.Run("update missing returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(ctx, "nope", core.BusinessPatch{Name: ptr("x")})
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Update err = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete missing leaves store unchanged", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Create(ctx, sampleInput("A")); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Delete err = %v, want ErrNotFound", err)
		}
		list, _ := s.List(ctx)
		if len(list) != 1 {
			t.Errorf("List len = %d, want 1", len(list))
		}
	})

	t.Run("delete removes record", func(t *testing.T) {
		s := newStore(t)
		b, _ := s.Create(ctx, sampleInput("A"))
		if err := s.Delete(ctx, b.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, b.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get after delete err = %v", err)
		}
	})

	t.Run("bulk create keeps input order", func(t *testing.T) {
		s := newStore(t)
		first, _ := s.Create(ctx, sampleInput("First"))
		created, err := s.BulkCreate(ctx, []core.BusinessInput{sampleInput("B"), sampleInput("C"), sampleInput("D")})
		if err != nil {
			t.Fatalf("BulkCreate: %v", err)
		}
		if len(created) != 3 {
			t.Fatalf("created %d, want 3", len(created))
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		names := []string{}
		for _, b := range list {
			names = append(names, b.Name)
		}
		want := []string{"First", "B", "C", "D"}
		if len(names) != len(want) {
			t.Fatalf("names = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Fatalf("names = %v, want %v", names, want)
			}
		}
		if list[0].ID != first.ID {
			t.Errorf("first id = %q, want %q", list[0].ID, first.ID)
		}
	})
}
