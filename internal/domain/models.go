package domain

import "time"

// Interest status values. pending is the initial state; accepted and
// rejected are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// TimeLayout is a fixed-width RFC3339 form so stored timestamps compare
// chronologically as strings (CURRENT_TIMESTAMP only has second resolution).
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func Now() string { return time.Now().UTC().Format(TimeLayout) }

type Crop struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Type         string     `db:"type" json:"type"`
	PricePerUnit float64    `db:"price_per_unit" json:"pricePerUnit"`
	Unit         string     `db:"unit" json:"unit"`
	Quantity     float64    `db:"quantity" json:"quantity"`
	Description  string     `db:"description" json:"description"`
	Location     string     `db:"location" json:"location"`
	Image        string     `db:"image" json:"image"`
	OwnerEmail   string     `db:"owner_email" json:"ownerEmail"`
	OwnerName    string     `db:"owner_name" json:"ownerName"`
	CreatedAt    string     `db:"created_at" json:"createdAt"`
	UpdatedAt    string     `db:"updated_at" json:"updatedAt"`
	Interests    []Interest `db:"-" json:"interests"`
}

type Interest struct {
	ID             string  `db:"id" json:"id"`
	CropID         string  `db:"crop_id" json:"cropId"`
	CropName       string  `db:"crop_name" json:"cropName"`
	OwnerEmail     string  `db:"owner_email" json:"ownerEmail"`
	OwnerName      string  `db:"owner_name" json:"ownerName"`
	RequesterEmail string  `db:"requester_email" json:"requesterEmail"`
	RequesterName  string  `db:"requester_name" json:"requesterName"`
	RequesterPhoto string  `db:"requester_photo" json:"requesterPhoto,omitempty"`
	Quantity       float64 `db:"quantity" json:"quantity"`
	Message        string  `db:"message" json:"message,omitempty"`
	TotalPrice     float64 `db:"total_price" json:"totalPrice"` // frozen at submission
	Status         string  `db:"status" json:"status"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
	UpdatedAt      string  `db:"updated_at" json:"updatedAt"`
}

// InterestView is an interest joined with its crop's current listing
// details. CropName carries the crop's name at query time, not the snapshot
// stored on the interest row; TotalPrice stays frozen.
type InterestView struct {
	Interest
	CropImage    string  `db:"crop_image" json:"cropImage"`
	CropPrice    float64 `db:"crop_price" json:"cropPricePerUnit"`
	CropUnit     string  `db:"crop_unit" json:"cropUnit"`
	CropLocation string  `db:"crop_location" json:"cropLocation"`
}

type User struct {
	Email     string `db:"email" json:"email"`
	Name      string `db:"name" json:"name"`
	Photo     string `db:"photo" json:"photo,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}
