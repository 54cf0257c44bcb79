package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/internal/domain/repository"
	"github.com/foodshare/foodshare-api/pkg/helpers"
	"github.com/foodshare/foodshare-api/pkg/mailer"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrListingClaimed  = errors.New("listing already claimed")
	ErrNotOwner        = errors.New("listing belongs to another donor")
	ErrNoPhotoStorage  = errors.New("photo storage not configured")
)

// ListingService owns the listing workflow: create, browse, search, claim,
// photo upload, and per-user aggregation.
type ListingService struct {
	Listings repository.ListingRepository
	Users    repository.UserRepository

	GCS       *storage.Client
	GCSBucket string

	// Pub carries best-effort claim notifications; nil disables them.
	Pub *helpers.RabbitPublisher

	// ES mirrors available listings into a search index; nil means search
	// falls back to the SQL substring filter.
	ES      *elasticsearch.Client
	ESIndex string

	Logger *logrus.Logger
}

func NewListingService(listings repository.ListingRepository, users repository.UserRepository,
	gcs *storage.Client, gcsBucket string, pub *helpers.RabbitPublisher,
	es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *ListingService {
	return &ListingService{
		Listings:  listings,
		Users:     users,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Pub:       pub,
		ES:        es,
		ESIndex:   esIndex,
		Logger:    logger,
	}
}

type CreateListingInput struct {
	FoodType    string
	Quantity    string
	Description string
	Location    string
}

// Create persists a new available listing owned by the donor.
func (s *ListingService) Create(ctx context.Context, donor *entity.User, in CreateListingInput) (*entity.Listing, error) {
	l := &entity.Listing{
		DonorID:     donor.ID,
		FoodType:    in.FoodType,
		Quantity:    in.Quantity,
		Description: in.Description,
		Location:    in.Location,
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, err
	}
	s.indexListing(ctx, l)
	return l, nil
}

func (s *ListingService) Browse(ctx context.Context) ([]entity.ListingWithDonor, error) {
	return s.Listings.ListAvailable(ctx)
}

// Search filters available listings by a case-insensitive substring match on
// food type. When the search index is configured it resolves matching IDs
// there and hydrates them from the store; otherwise it filters in SQL.
// An empty query returns the unfiltered available set on either path.
func (s *ListingService) Search(ctx context.Context, q string) ([]entity.ListingWithDonor, error) {
	q = strings.TrimSpace(q)
	if q == "" || s.ES == nil || s.ESIndex == "" {
		return s.Listings.SearchAvailable(ctx, q)
	}

	ids, err := s.searchIndexIDs(ctx, q)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("search index unavailable, falling back to sql")
		}
		return s.Listings.SearchAvailable(ctx, q)
	}
	return s.Listings.ListAvailableByIDs(ctx, ids)
}

// Claim moves the listing from available to claimed for this receiver. The
// underlying write is conditional on the current status, so concurrent
// claims resolve to one winner and ErrListingClaimed for everyone else.
func (s *ListingService) Claim(ctx context.Context, receiver *entity.User, listingID string) (*entity.Listing, error) {
	l, err := s.Listings.Claim(ctx, listingID, receiver.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrListingNotFound
		case errors.Is(err, repository.ErrAlreadyClaimed):
			return nil, ErrListingClaimed
		}
		return nil, err
	}

	s.indexListing(ctx, l)
	s.notifyDonor(ctx, l, receiver)
	return l, nil
}

// UploadPhoto stores a listing image in GCS and records its public URL.
// Only the owning donor may attach a photo.
func (s *ListingService) UploadPhoto(ctx context.Context, donor *entity.User, listingID string, r io.Reader, filename, contentType string) (string, error) {
	l, err := s.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrListingNotFound
		}
		return "", err
	}
	if l.DonorID != donor.ID {
		return "", ErrNotOwner
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrNoPhotoStorage
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("listings", l.ID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Listings.SetImageURL(ctx, l.ID, url); err != nil {
		return "", err
	}
	l.ImageURL = url
	s.indexListing(ctx, l)
	return url, nil
}

// ListForUser returns the listings relevant to the caller: owned listings
// with claimant contact details for donors, claimed listings with donor
// contact details for receivers.
func (s *ListingService) ListForUser(ctx context.Context, u *entity.User) ([]entity.ListingWithContact, error) {
	if u.Role == entity.RoleDonor {
		return s.Listings.ListByDonor(ctx, u.ID)
	}
	return s.Listings.ListByClaimant(ctx, u.ID)
}

// Stats summarizes the caller's listings by status and sums a best-effort
// integer parse of the free-text quantity field.
type Stats struct {
	Total         int `json:"total"`
	Available     int `json:"available"`
	Claimed       int `json:"claimed"`
	Completed     int `json:"completed"`
	TotalQuantity int `json:"total_quantity"`
}

func (s *ListingService) StatsForUser(ctx context.Context, u *entity.User) (Stats, error) {
	rows, err := s.ListForUser(ctx, u)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, lw := range rows {
		st.Total++
		switch lw.Status {
		case entity.ListingAvailable:
			st.Available++
		case entity.ListingClaimed:
			st.Claimed++
		case entity.ListingCompleted:
			st.Completed++
		}
		st.TotalQuantity += quantityValue(lw.Quantity)
	}
	return st, nil
}

func (s *ListingService) notifyDonor(ctx context.Context, l *entity.Listing, receiver *entity.User) {
	if s.Pub == nil {
		return
	}
	donor, err := s.Users.GetByID(ctx, l.DonorID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("listing_id", l.ID).Warn("claim notification: donor lookup failed")
		}
		return
	}
	job, err := mailer.NewClaimJob(donor.Email, mailer.ClaimNotificationData{
		DonorName:     donor.Name,
		FoodType:      l.FoodType,
		Quantity:      l.Quantity,
		Location:      l.Location,
		ClaimantName:  receiver.Name,
		ClaimantOrg:   receiver.Organization,
		ClaimantEmail: receiver.Email,
		ClaimantPhone: receiver.Phone,
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("claim notification: render failed")
		}
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("listing_id", l.ID).Warn("claim notification: publish failed")
	}
}

func (s *ListingService) indexListing(ctx context.Context, l *entity.Listing) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         l.ID,
		"food_type":  l.FoodType,
		"quantity":   l.Quantity,
		"location":   l.Location,
		"status":     string(l.Status),
		"created_at": l.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: l.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("listing_id", l.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("listing_id", l.ID).Warn("es index response error")
	}
}

// wildcardEscaper neutralizes the wildcard metacharacters in user queries so
// only the surrounding "*" anchors expand.
var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// esSearchQuery builds the index query for a food-type substring. A
// case-insensitive wildcard on the keyword field keeps the same substring
// contract as the SQL ILIKE filter; an analyzed match query would tokenize
// the input and drop partial-word hits like "Brea" -> "Bread".
func esSearchQuery(q string) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"wildcard": map[string]any{
						"food_type.keyword": map[string]any{
							"value":            "*" + wildcardEscaper.Replace(q) + "*",
							"case_insensitive": true,
						},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": string(entity.ListingAvailable)},
				},
			},
		},
		"size": 100,
	}
}

func (s *ListingService) searchIndexIDs(ctx context.Context, q string) ([]string, error) {
	b, _ := json.Marshal(esSearchQuery(q))

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("search index error: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
