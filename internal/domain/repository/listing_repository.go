package repository

import (
	"context"
	"errors"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
)

// ErrAlreadyClaimed is returned by Claim when the listing exists but is no
// longer in the available state.
var ErrAlreadyClaimed = errors.New("listing already claimed")

// ListingRepository defines persistence for donation listings.
type ListingRepository interface {
	Create(ctx context.Context, l *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)

	// ListAvailable returns all available listings annotated with public
	// donor fields.
	ListAvailable(ctx context.Context) ([]entity.ListingWithDonor, error)
	// SearchAvailable filters the available set by a case-insensitive
	// substring match on food type. An empty query returns the full set.
	SearchAvailable(ctx context.Context, q string) ([]entity.ListingWithDonor, error)
	// ListAvailableByIDs returns the available listings among ids, used to
	// hydrate search-index hits.
	ListAvailableByIDs(ctx context.Context, ids []string) ([]entity.ListingWithDonor, error)

	// Claim transitions the listing to claimed and records the receiver,
	// but only if it is still available. The conditional write is atomic:
	// exactly one of any set of concurrent claimants succeeds, the rest get
	// ErrAlreadyClaimed. Unknown ids yield ErrNotFound.
	Claim(ctx context.Context, listingID, receiverID string) (*entity.Listing, error)

	SetImageURL(ctx context.Context, listingID, url string) error

	// ListByDonor returns the donor's listings with the claimant's contact
	// details joined in where claimed.
	ListByDonor(ctx context.Context, donorID string) ([]entity.ListingWithContact, error)
	// ListByClaimant returns the receiver's claimed listings with the
	// donor's contact details joined in.
	ListByClaimant(ctx context.Context, receiverID string) ([]entity.ListingWithContact, error)
}
