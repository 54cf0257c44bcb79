package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/internal/domain/repository"
)

// In-memory repository fakes. The listing fake guards its claim transition
// with a mutex-scoped compare-and-set, mirroring the conditional UPDATE the
// real store issues.

type memUserRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("u-%d", m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = u.Name
	stored.Organization = u.Organization
	stored.Location = u.Location
	stored.Phone = u.Phone
	stored.UpdatedAt = time.Now()
	return nil
}

type memListingRepo struct {
	mu    sync.Mutex
	seq   int
	byID  map[string]*entity.Listing
	users *memUserRepo
}

func newMemListingRepo(users *memUserRepo) *memListingRepo {
	return &memListingRepo{byID: map[string]*entity.Listing{}, users: users}
}

func (m *memListingRepo) Create(_ context.Context, l *entity.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.ID = fmt.Sprintf("l-%d", m.seq)
	l.Status = entity.ListingAvailable
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *memListingRepo) GetByID(_ context.Context, id string) (*entity.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.byID[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memListingRepo) donorInfo(id string) entity.DonorInfo {
	if u, ok := m.users.byID[id]; ok {
		return entity.DonorInfo{ID: u.ID, Name: u.Name, Organization: u.Organization, Location: u.Location}
	}
	return entity.DonorInfo{ID: id}
}

func (m *memListingRepo) contactInfo(id string) *entity.ContactInfo {
	u, ok := m.users.byID[id]
	if !ok {
		return nil
	}
	return &entity.ContactInfo{
		ID: u.ID, Name: u.Name, Organization: u.Organization,
		Location: u.Location, Email: u.Email, Phone: u.Phone,
	}
}

func (m *memListingRepo) ListAvailable(ctx context.Context) ([]entity.ListingWithDonor, error) {
	return m.SearchAvailable(ctx, "")
}

func (m *memListingRepo) SearchAvailable(_ context.Context, q string) ([]entity.ListingWithDonor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.ListingWithDonor{}
	for _, l := range m.byID {
		if l.Status != entity.ListingAvailable {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(l.FoodType), strings.ToLower(q)) {
			continue
		}
		out = append(out, entity.ListingWithDonor{Listing: *l, Donor: m.donorInfo(l.DonorID)})
	}
	return out, nil
}

func (m *memListingRepo) ListAvailableByIDs(_ context.Context, ids []string) ([]entity.ListingWithDonor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.ListingWithDonor{}
	for _, id := range ids {
		if l, ok := m.byID[id]; ok && l.Status == entity.ListingAvailable {
			out = append(out, entity.ListingWithDonor{Listing: *l, Donor: m.donorInfo(l.DonorID)})
		}
	}
	return out, nil
}

func (m *memListingRepo) Claim(_ context.Context, listingID, receiverID string) (*entity.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[listingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if l.Status != entity.ListingAvailable {
		return nil, repository.ErrAlreadyClaimed
	}
	l.Status = entity.ListingClaimed
	rid := receiverID
	l.ClaimedBy = &rid
	l.UpdatedAt = time.Now()
	cp := *l
	return &cp, nil
}

func (m *memListingRepo) SetImageURL(_ context.Context, listingID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[listingID]
	if !ok {
		return repository.ErrNotFound
	}
	l.ImageURL = url
	l.UpdatedAt = time.Now()
	return nil
}

func (m *memListingRepo) ListByDonor(_ context.Context, donorID string) ([]entity.ListingWithContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.ListingWithContact{}
	for _, l := range m.byID {
		if l.DonorID != donorID {
			continue
		}
		lw := entity.ListingWithContact{Listing: *l}
		if l.ClaimedBy != nil {
			lw.Contact = m.contactInfo(*l.ClaimedBy)
		}
		out = append(out, lw)
	}
	return out, nil
}

func (m *memListingRepo) ListByClaimant(_ context.Context, receiverID string) ([]entity.ListingWithContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.ListingWithContact{}
	for _, l := range m.byID {
		if l.ClaimedBy == nil || *l.ClaimedBy != receiverID {
			continue
		}
		lw := entity.ListingWithContact{Listing: *l, Contact: m.contactInfo(l.DonorID)}
		out = append(out, lw)
	}
	return out, nil
}

var (
	_ repository.UserRepository    = (*memUserRepo)(nil)
	_ repository.ListingRepository = (*memListingRepo)(nil)
)
