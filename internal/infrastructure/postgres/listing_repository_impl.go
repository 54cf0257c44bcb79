package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/internal/domain/repository"
)

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingCols = `l.id, l.donor_id, l.food_type, l.quantity, l.description, l.location,
	l.image_url, l.status, l.claimed_by, l.created_at, l.updated_at`

func scanListing(row pgx.Row, l *entity.Listing) error {
	return row.Scan(&l.ID, &l.DonorID, &l.FoodType, &l.Quantity, &l.Description,
		&l.Location, &l.ImageURL, &l.Status, &l.ClaimedBy, &l.CreatedAt, &l.UpdatedAt)
}

func (r *ListingRepository) Create(ctx context.Context, l *entity.Listing) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO listings (donor_id, food_type, quantity, description, location, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`, l.DonorID, l.FoodType, l.Quantity, l.Description, l.Location, l.ImageURL)

	return row.Scan(&l.ID, &l.Status, &l.CreatedAt, &l.UpdatedAt)
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l := &entity.Listing{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+listingCols+`
		FROM listings l
		WHERE l.id = $1
	`, id)

	if err := scanListing(row, l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) ListAvailable(ctx context.Context) ([]entity.ListingWithDonor, error) {
	return r.queryAvailable(ctx, `
		SELECT `+listingCols+`, u.id, u.name, u.organization, u.location
		FROM listings l
		JOIN users u ON u.id = l.donor_id
		WHERE l.status = 'available'
		ORDER BY l.created_at DESC
	`)
}

func (r *ListingRepository) SearchAvailable(ctx context.Context, q string) ([]entity.ListingWithDonor, error) {
	if q == "" {
		return r.ListAvailable(ctx)
	}
	return r.queryAvailable(ctx, `
		SELECT `+listingCols+`, u.id, u.name, u.organization, u.location
		FROM listings l
		JOIN users u ON u.id = l.donor_id
		WHERE l.status = 'available' AND l.food_type ILIKE '%' || $1 || '%'
		ORDER BY l.created_at DESC
	`, q)
}

func (r *ListingRepository) ListAvailableByIDs(ctx context.Context, ids []string) ([]entity.ListingWithDonor, error) {
	if len(ids) == 0 {
		return []entity.ListingWithDonor{}, nil
	}
	return r.queryAvailable(ctx, `
		SELECT `+listingCols+`, u.id, u.name, u.organization, u.location
		FROM listings l
		JOIN users u ON u.id = l.donor_id
		WHERE l.status = 'available' AND l.id = ANY($1)
		ORDER BY l.created_at DESC
	`, ids)
}

func (r *ListingRepository) queryAvailable(ctx context.Context, sql string, args ...any) ([]entity.ListingWithDonor, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.ListingWithDonor{}
	for rows.Next() {
		var lw entity.ListingWithDonor
		if err := rows.Scan(
			&lw.ID, &lw.DonorID, &lw.FoodType, &lw.Quantity, &lw.Description,
			&lw.Location, &lw.ImageURL, &lw.Status, &lw.ClaimedBy, &lw.CreatedAt, &lw.UpdatedAt,
			&lw.Donor.ID, &lw.Donor.Name, &lw.Donor.Organization, &lw.Donor.Location,
		); err != nil {
			return nil, err
		}
		out = append(out, lw)
	}
	return out, rows.Err()
}

// Claim performs the available -> claimed transition as a single conditional
// update so that exactly one of any set of concurrent claimants wins.
func (r *ListingRepository) Claim(ctx context.Context, listingID, receiverID string) (*entity.Listing, error) {
	l := &entity.Listing{}
	row := r.pool.QueryRow(ctx, `
		UPDATE listings l
		SET status = 'claimed', claimed_by = $2, updated_at = now()
		WHERE l.id = $1 AND l.status = 'available'
		RETURNING `+listingCols+`
	`, listingID, receiverID)

	err := scanListing(row, l)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// The conditional write matched nothing: either the listing does not
	// exist or somebody else already claimed it.
	if _, getErr := r.GetByID(ctx, listingID); getErr != nil {
		return nil, getErr
	}
	return nil, repository.ErrAlreadyClaimed
}

func (r *ListingRepository) SetImageURL(ctx context.Context, listingID, url string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE listings SET image_url = $2, updated_at = now() WHERE id = $1
	`, listingID, url)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) ListByDonor(ctx context.Context, donorID string) ([]entity.ListingWithContact, error) {
	return r.queryWithContact(ctx, `
		SELECT `+listingCols+`,
			u.id, u.name, u.organization, u.location, u.email, u.phone
		FROM listings l
		LEFT JOIN users u ON u.id = l.claimed_by
		WHERE l.donor_id = $1
		ORDER BY l.created_at DESC
	`, donorID)
}

func (r *ListingRepository) ListByClaimant(ctx context.Context, receiverID string) ([]entity.ListingWithContact, error) {
	return r.queryWithContact(ctx, `
		SELECT `+listingCols+`,
			u.id, u.name, u.organization, u.location, u.email, u.phone
		FROM listings l
		JOIN users u ON u.id = l.donor_id
		WHERE l.claimed_by = $1
		ORDER BY l.updated_at DESC
	`, receiverID)
}

func (r *ListingRepository) queryWithContact(ctx context.Context, sql string, args ...any) ([]entity.ListingWithContact, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.ListingWithContact{}
	for rows.Next() {
		var lw entity.ListingWithContact
		var cID, cName, cOrg, cLoc, cEmail, cPhone *string
		if err := rows.Scan(
			&lw.ID, &lw.DonorID, &lw.FoodType, &lw.Quantity, &lw.Description,
			&lw.Location, &lw.ImageURL, &lw.Status, &lw.ClaimedBy, &lw.CreatedAt, &lw.UpdatedAt,
			&cID, &cName, &cOrg, &cLoc, &cEmail, &cPhone,
		); err != nil {
			return nil, err
		}
		if cID != nil {
			lw.Contact = &entity.ContactInfo{
				ID:           *cID,
				Name:         deref(cName),
				Organization: deref(cOrg),
				Location:     deref(cLoc),
				Email:        deref(cEmail),
				Phone:        deref(cPhone),
			}
		}
		out = append(out, lw)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.ListingRepository = (*ListingRepository)(nil)
