package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
)

func newListingFixture(t *testing.T) (*ListingService, *entity.User, []*entity.User) {
	t.Helper()
	ctx := context.Background()
	users := newMemUserRepo()
	listings := newMemListingRepo(users)

	donor := &entity.User{Name: "Donor", Email: "donor@example.com", Password: "x", Role: entity.RoleDonor, Location: "Cape Town"}
	if err := users.Create(ctx, donor); err != nil {
		t.Fatalf("create donor: %v", err)
	}
	receivers := make([]*entity.User, 3)
	for i, email := range []string{"r1@example.com", "r2@example.com", "r3@example.com"} {
		r := &entity.User{Name: "Receiver", Email: email, Password: "x", Role: entity.RoleReceiver, Phone: "+27"}
		if err := users.Create(ctx, r); err != nil {
			t.Fatalf("create receiver: %v", err)
		}
		receivers[i] = r
	}

	// No GCS/AMQP/ES in tests: every side channel is optional by design.
	svc := NewListingService(listings, users, nil, "", nil, nil, "", nil)
	return svc, donor, receivers
}

func TestCreateAndBrowse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, donor, _ := newListingFixture(t)

	l, err := svc.Create(ctx, donor, CreateListingInput{
		FoodType: "Bread", Quantity: "5 kg", Location: "Cape Town",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if l.Status != entity.ListingAvailable {
		t.Fatalf("new listing must default to available, got %q", l.Status)
	}
	if l.ClaimedBy != nil {
		t.Fatalf("new listing must have no claimant")
	}

	rows, err := svc.Browse(ctx)
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 available listing, got %d", len(rows))
	}
	d := rows[0].Donor
	if d.ID != donor.ID || d.Name != donor.Name {
		t.Fatalf("browse must annotate donor public fields: %+v", d)
	}
}

func TestSearch_FoodTypeSubstring(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, donor, _ := newListingFixture(t)

	for _, ft := range []string{"Bread", "Sourdough bread", "Vegetables"} {
		if _, err := svc.Create(ctx, donor, CreateListingInput{FoodType: ft, Quantity: "1", Location: "CT"}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	rows, err := svc.Search(ctx, "bReAd")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("case-insensitive substring match expected 2 rows, got %d", len(rows))
	}

	rows, err = svc.Search(ctx, "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("empty query must return the full available set, got %d", len(rows))
	}
}

func TestClaim_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, donor, receivers := newListingFixture(t)

	l, err := svc.Create(ctx, donor, CreateListingInput{FoodType: "Bread", Quantity: "5 kg", Location: "Cape Town"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	claimed, err := svc.Claim(ctx, receivers[0], l.ID)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed.Status != entity.ListingClaimed {
		t.Fatalf("expected claimed status, got %q", claimed.Status)
	}
	if claimed.ClaimedBy == nil || *claimed.ClaimedBy != receivers[0].ID {
		t.Fatalf("claimant not recorded: %+v", claimed.ClaimedBy)
	}

	// Second claim by a different receiver must conflict, not overwrite.
	if _, err := svc.Claim(ctx, receivers[1], l.ID); !errors.Is(err, ErrListingClaimed) {
		t.Fatalf("expected ErrListingClaimed, got %v", err)
	}
	// Repeating the same receiver's claim is rejected too.
	if _, err := svc.Claim(ctx, receivers[0], l.ID); !errors.Is(err, ErrListingClaimed) {
		t.Fatalf("expected ErrListingClaimed on repeat, got %v", err)
	}

	if _, err := svc.Claim(ctx, receivers[0], "no-such-listing"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}

	// Claimed listings leave the browse set.
	rows, err := svc.Browse(ctx)
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("claimed listing must not appear in browse, got %d rows", len(rows))
	}
}

func TestClaim_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, donor, receivers := newListingFixture(t)

	l, err := svc.Create(ctx, donor, CreateListingInput{FoodType: "Rice", Quantity: "10 kg", Location: "Cape Town"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, len(receivers))
	for i, r := range receivers {
		wg.Add(1)
		go func(i int, u *entity.User) {
			defer wg.Done()
			_, results[i] = svc.Claim(ctx, u, l.ID)
		}(i, r)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrListingClaimed):
			conflicts++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if wins != 1 || conflicts != len(receivers)-1 {
		t.Fatalf("expected exactly one winner, got wins=%d conflicts=%d", wins, conflicts)
	}

	stored, err := svc.Listings.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != entity.ListingClaimed || stored.ClaimedBy == nil {
		t.Fatalf("final state must be claimed with one claimant: %+v", stored)
	}
}

func TestListForUserAndStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, donor, receivers := newListingFixture(t)

	l1, _ := svc.Create(ctx, donor, CreateListingInput{FoodType: "Bread", Quantity: "5 kg", Location: "CT"})
	_, _ = svc.Create(ctx, donor, CreateListingInput{FoodType: "Soup", Quantity: "12 liters", Location: "CT"})
	_, _ = svc.Create(ctx, donor, CreateListingInput{FoodType: "Apples", Quantity: "a crate", Location: "CT"})

	if _, err := svc.Claim(ctx, receivers[0], l1.ID); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// Donor sees all own listings; the claimed one carries claimant contact.
	mine, err := svc.ListForUser(ctx, donor)
	if err != nil {
		t.Fatalf("list for donor failed: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("donor expects 3 listings, got %d", len(mine))
	}
	for _, lw := range mine {
		if lw.ID == l1.ID {
			if lw.Contact == nil || lw.Contact.Email != receivers[0].Email {
				t.Fatalf("claimed listing must expose claimant contact: %+v", lw.Contact)
			}
		} else if lw.Contact != nil {
			t.Fatalf("unclaimed listing must not expose any contact")
		}
	}

	// Receiver sees only claimed listings, with donor contact.
	theirs, err := svc.ListForUser(ctx, receivers[0])
	if err != nil {
		t.Fatalf("list for receiver failed: %v", err)
	}
	if len(theirs) != 1 || theirs[0].Contact == nil || theirs[0].Contact.Email != donor.Email {
		t.Fatalf("receiver must see claimed listing with donor contact: %+v", theirs)
	}

	donorStats, err := svc.StatsForUser(ctx, donor)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	want := Stats{Total: 3, Available: 2, Claimed: 1, Completed: 0, TotalQuantity: 17}
	if donorStats != want {
		t.Fatalf("donor stats mismatch: got %+v want %+v", donorStats, want)
	}

	receiverStats, err := svc.StatsForUser(ctx, receivers[0])
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	want = Stats{Total: 1, Claimed: 1, TotalQuantity: 5}
	if receiverStats != want {
		t.Fatalf("receiver stats mismatch: got %+v want %+v", receiverStats, want)
	}
}

func TestSearchIndexQuery_SubstringSemantics(t *testing.T) {
	t.Parallel()

	dig := func(m map[string]any, keys ...string) map[string]any {
		t.Helper()
		for _, k := range keys {
			next, ok := m[k].(map[string]any)
			if !ok {
				t.Fatalf("query missing %q: %+v", k, m)
			}
			m = next
		}
		return m
	}

	// A partial word must stay a substring pattern on the raw keyword value,
	// not an analyzed token match that would miss "Bread" for "Brea".
	wc := dig(esSearchQuery("Brea"), "query", "bool", "must", "wildcard", "food_type.keyword")
	if got := wc["value"]; got != "*Brea*" {
		t.Fatalf("wildcard value = %v, want *Brea*", got)
	}
	if ci, _ := wc["case_insensitive"].(bool); !ci {
		t.Fatalf("wildcard must be case-insensitive")
	}

	// User-typed wildcard metacharacters are matched literally.
	wc = dig(esSearchQuery(`So*p?`), "query", "bool", "must", "wildcard", "food_type.keyword")
	if got := wc["value"]; got != `*So\*p\?*` {
		t.Fatalf("wildcard value = %v, want escaped pattern", got)
	}

	// Only available listings are eligible, matching the SQL filter.
	term := dig(esSearchQuery("Brea"), "query", "bool", "filter", "term")
	if got := term["status"]; got != "available" {
		t.Fatalf("status filter = %v, want available", got)
	}
}
