package services

import (
	"database/sql"
	"errors"
	"strings"

	"farmlink/internal/apperr"
	"farmlink/internal/domain"
	"farmlink/internal/repos"
	"farmlink/internal/validate"

	"github.com/google/uuid"
)

type InterestService struct {
	Crops     *repos.CropRepo
	Interests *repos.InterestRepo
}

func NewInterestService(crops *repos.CropRepo, interests *repos.InterestRepo) *InterestService {
	return &InterestService{Crops: crops, Interests: interests}
}

// InterestInput carries a buyer's submission. Quantity is a pointer so an
// absent value is distinguishable from zero.
type InterestInput struct {
	CropID   string
	Email    string
	Name     string
	Photo    string
	Message  string
	Quantity *float64
}

// Submit records a pending interest on a crop. Total price is frozen at
// quantity times the crop's current price per unit.
func (s *InterestService) Submit(in InterestInput) (domain.Crop, domain.Interest, error) {
	var none domain.Crop
	var noneIt domain.Interest

	email, ok := validate.Email(in.Email)
	if !ok {
		return none, noneIt, apperr.Validationf("email is required")
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return none, noneIt, apperr.Validationf("name is required")
	}
	cropID, ok := validate.ID(in.CropID)
	if !ok {
		return none, noneIt, apperr.Validationf("invalid crop id")
	}
	if in.Quantity == nil || !validate.InterestQty(*in.Quantity) {
		return none, noneIt, apperr.Validationf("quantity must be at least 1")
	}

	crop, err := s.Crops.Get(cropID)
	if errors.Is(err, sql.ErrNoRows) {
		return none, noneIt, apperr.NotFoundf("crop not found")
	}
	if err != nil {
		return none, noneIt, apperr.Wrap("get crop", err)
	}

	if strings.EqualFold(crop.OwnerEmail, email) {
		return none, noneIt, apperr.Validationf("owners cannot express interest in their own listing")
	}

	exists, err := s.Interests.ExistsFor(cropID, email)
	if err != nil {
		return none, noneIt, apperr.Wrap("check existing interest", err)
	}
	if exists {
		return none, noneIt, apperr.Conflictf("interest already submitted for this crop")
	}

	now := domain.Now()
	it := domain.Interest{
		ID:             uuid.NewString(),
		CropID:         crop.ID,
		CropName:       crop.Name,
		OwnerEmail:     crop.OwnerEmail,
		OwnerName:      crop.OwnerName,
		RequesterEmail: email,
		RequesterName:  name,
		RequesterPhoto: strings.TrimSpace(in.Photo),
		Quantity:       *in.Quantity,
		Message:        strings.TrimSpace(in.Message),
		TotalPrice:     *in.Quantity * crop.PricePerUnit,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Interests.Insert(&it); err != nil {
		// Unique (crop, requester) index closes the race between the
		// existence check and the insert.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return none, noneIt, apperr.Conflictf("interest already submitted for this crop")
		}
		return none, noneIt, apperr.Wrap("insert interest", err)
	}

	crop, err = s.Crops.Get(cropID)
	if err != nil {
		return none, noneIt, apperr.Wrap("reload crop", err)
	}
	return crop, it, nil
}

// ListByRequester returns every interest the requester has submitted,
// joined with each crop's current listing details.
func (s *InterestService) ListByRequester(email, sort string) ([]domain.InterestView, error) {
	email, ok := validate.Email(email)
	if !ok {
		return nil, apperr.Validationf("email is required")
	}
	out, err := s.Interests.ListByRequester(email, validate.InterestSort(sort))
	if err != nil {
		return nil, apperr.Wrap("list interests", err)
	}
	return out, nil
}

// Transition moves an interest to the target status. Accepting reserves
// quantity: the crop's available quantity is decremented by the interest's
// requested quantity in the same atomic update, and only a pending
// interest may be accepted. Rejecting or resetting to pending never
// adjusts quantity (an accepted interest's decrement is not restored).
func (s *InterestService) Transition(cropID, interestID, status string) (domain.Crop, error) {
	var none domain.Crop

	cropID, ok := validate.ID(cropID)
	if !ok {
		return none, apperr.Validationf("invalid crop id")
	}
	interestID, ok = validate.ID(interestID)
	if !ok {
		return none, apperr.Validationf("invalid interest id")
	}

	if _, err := s.Crops.Get(cropID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return none, apperr.NotFoundf("crop not found")
		}
		return none, apperr.Wrap("get crop", err)
	}
	it, err := s.Interests.Get(cropID, interestID)
	if errors.Is(err, sql.ErrNoRows) {
		return none, apperr.NotFoundf("interest not found")
	}
	if err != nil {
		return none, apperr.Wrap("get interest", err)
	}

	switch status {
	case domain.StatusAccepted:
		err = s.Interests.Accept(cropID, interestID, it.Quantity, domain.Now())
		switch {
		case errors.Is(err, repos.ErrInsufficientQuantity):
			return none, apperr.Validationf("insufficient quantity")
		case errors.Is(err, repos.ErrNotPending):
			return none, apperr.Validationf("only a pending interest can be accepted")
		case err != nil:
			return none, apperr.Wrap("accept interest", err)
		}
	case domain.StatusPending, domain.StatusRejected:
		n, err := s.Interests.SetStatus(cropID, interestID, status, domain.Now())
		if err != nil {
			return none, apperr.Wrap("set interest status", err)
		}
		if n == 0 {
			return none, apperr.NotFoundf("interest not found")
		}
	default:
		return none, apperr.Validationf("invalid status %q", status)
	}

	crop, err := s.Crops.Get(cropID)
	if err != nil {
		return none, apperr.Wrap("reload crop", err)
	}
	return crop, nil
}
