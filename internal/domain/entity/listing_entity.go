package entity

import "time"

// ListingStatus is the lifecycle state of a donation listing.
// The only exposed transition is available -> claimed; "completed" is kept
// in the schema for forward compatibility but no handler sets it.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingClaimed   ListingStatus = "claimed"
	ListingCompleted ListingStatus = "completed"
)

// Listing is a donation record owned by a donor. ClaimedBy is nil until a
// receiver claims it; DonorID is immutable after creation.
type Listing struct {
	ID          string        `json:"id"`
	DonorID     string        `json:"donor_id"`
	FoodType    string        `json:"food_type"`
	Quantity    string        `json:"quantity"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location"`
	ImageURL    string        `json:"image_url,omitempty"`
	Status      ListingStatus `json:"status"`
	ClaimedBy   *string       `json:"claimed_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// DonorInfo is the public subset of a donor shown on browse/search views.
// Email and phone are deliberately absent here.
type DonorInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Location     string `json:"location,omitempty"`
}

// ContactInfo is the fuller view revealed only to the matched counterparty
// of a claimed listing (donor sees claimant, claimant sees donor).
type ContactInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Location     string `json:"location,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
}

// ListingWithDonor annotates a listing with its donor's public fields.
type ListingWithDonor struct {
	Listing
	Donor DonorInfo `json:"donor"`
}

// ListingWithContact annotates a listing with the counterparty's contact
// details, when there is one.
type ListingWithContact struct {
	Listing
	Contact *ContactInfo `json:"contact,omitempty"`
}
