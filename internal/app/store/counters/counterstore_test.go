package counters_test

import (
	"sync"
	"testing"

	"github.com/danielhkim/shepherdhub/internal/app/store/counters"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

func TestNext_SequentialPerCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	s := counters.New(db)

	for want := 1; want <= 3; want++ {
		got, err := s.Next(ctx, "members")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Next = %d, want %d", got, want)
		}
	}

	// A different collection has its own sequence.
	got, err := s.Next(ctx, "visits")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("fresh collection Next = %d, want 1", got)
	}
}

func TestNext_NoDuplicatesUnderConcurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	s := counters.New(db)

	const n = 20
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.Next(ctx, "attendance")
			if err != nil {
				t.Error(err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d handed out twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct ids, want %d", len(seen), n)
	}
}

func TestCurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	s := counters.New(db)

	cur, err := s.Current(ctx, "groups")
	if err != nil {
		t.Fatal(err)
	}
	if cur != 0 {
		t.Errorf("missing counter reads as %d, want 0", cur)
	}

	if _, err := s.Next(ctx, "groups"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Next(ctx, "groups"); err != nil {
		t.Fatal(err)
	}

	cur, err = s.Current(ctx, "groups")
	if err != nil {
		t.Fatal(err)
	}
	if cur != 2 {
		t.Errorf("Current = %d, want 2", cur)
	}

	// Current does not consume a value.
	next, err := s.Next(ctx, "groups")
	if err != nil {
		t.Fatal(err)
	}
	if next != 3 {
		t.Errorf("Next after Current = %d, want 3", next)
	}
}
