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

type CropService struct {
	Crops *repos.CropRepo
}

func NewCropService(crops *repos.CropRepo) *CropService {
	return &CropService{Crops: crops}
}

// CropInput carries a full create payload. Numeric fields are pointers so
// an absent value is distinguishable from a legitimate zero.
type CropInput struct {
	Name         string
	Type         string
	PricePerUnit *float64
	Unit         string
	Quantity     *float64
	Description  string
	Location     string
	Image        string
	OwnerEmail   string
	OwnerName    string
}

// CropUpdate carries a partial update; nil means "leave unchanged".
type CropUpdate struct {
	Name         *string
	Type         *string
	PricePerUnit *float64
	Unit         *string
	Quantity     *float64
	Description  *string
	Location     *string
	Image        *string
}

func (s *CropService) Create(in CropInput) (domain.Crop, error) {
	required := []struct{ name, val string }{
		{"name", in.Name}, {"type", in.Type}, {"unit", in.Unit},
		{"description", in.Description}, {"location", in.Location}, {"image", in.Image},
		{"owner.name", in.OwnerName},
	}
	for _, f := range required {
		if _, ok := validate.Text(f.val); !ok {
			return domain.Crop{}, apperr.Validationf("%s is required", f.name)
		}
	}
	email, ok := validate.Email(in.OwnerEmail)
	if !ok {
		return domain.Crop{}, apperr.Validationf("owner.email is required")
	}
	if in.PricePerUnit == nil || !validate.Price(*in.PricePerUnit) {
		return domain.Crop{}, apperr.Validationf("pricePerUnit must be a positive number")
	}
	if in.Quantity == nil || !validate.Quantity(*in.Quantity) {
		return domain.Crop{}, apperr.Validationf("quantity must be a non-negative number")
	}

	now := domain.Now()
	c := domain.Crop{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.TrimSpace(in.Type),
		PricePerUnit: *in.PricePerUnit,
		Unit:         strings.TrimSpace(in.Unit),
		Quantity:     *in.Quantity,
		Description:  strings.TrimSpace(in.Description),
		Location:     strings.TrimSpace(in.Location),
		Image:        strings.TrimSpace(in.Image),
		OwnerEmail:   email,
		OwnerName:    strings.TrimSpace(in.OwnerName),
		CreatedAt:    now,
		UpdatedAt:    now,
		Interests:    []domain.Interest{},
	}
	if err := s.Crops.Insert(&c); err != nil {
		return domain.Crop{}, apperr.Wrap("insert crop", err)
	}
	return c, nil
}

func (s *CropService) Get(id string) (domain.Crop, error) {
	id, ok := validate.ID(id)
	if !ok {
		return domain.Crop{}, apperr.Validationf("invalid crop id")
	}
	c, err := s.Crops.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Crop{}, apperr.NotFoundf("crop not found")
	}
	if err != nil {
		return domain.Crop{}, apperr.Wrap("get crop", err)
	}
	return c, nil
}

func (s *CropService) List(search, ownerEmail string, limit, offset int) ([]domain.Crop, error) {
	out, err := s.Crops.List(repos.CropFilter{
		Search:     validate.Search(search),
		OwnerEmail: strings.TrimSpace(ownerEmail),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperr.Wrap("list crops", err)
	}
	return out, nil
}

func (s *CropService) Latest(limit int) ([]domain.Crop, error) {
	out, err := s.Crops.Latest(limit)
	if err != nil {
		return nil, apperr.Wrap("latest crops", err)
	}
	return out, nil
}

// ListOwned lists the crops belonging to ownerEmail, optionally narrowed
// by the same substring search as List.
func (s *CropService) ListOwned(ownerEmail, search string) ([]domain.Crop, error) {
	email, ok := validate.Email(ownerEmail)
	if !ok {
		return nil, apperr.Validationf("ownerEmail is required")
	}
	return s.List(search, email, 0, 0)
}

// Update merges the supplied fields into the crop.
func (s *CropService) Update(id string, upd CropUpdate) (domain.Crop, error) {
	return s.update(id, "", upd)
}

// UpdateOwned is Update additionally scoped to the crop's owner; a crop
// owned by someone else behaves as if it did not exist.
func (s *CropService) UpdateOwned(id, ownerEmail string, upd CropUpdate) (domain.Crop, error) {
	email, ok := validate.Email(ownerEmail)
	if !ok {
		return domain.Crop{}, apperr.Validationf("ownerEmail is required")
	}
	return s.update(id, email, upd)
}

func (s *CropService) update(id, ownerEmail string, upd CropUpdate) (domain.Crop, error) {
	id, ok := validate.ID(id)
	if !ok {
		return domain.Crop{}, apperr.Validationf("invalid crop id")
	}

	fields := map[string]any{}
	strField := func(col string, v *string) error {
		if v == nil {
			return nil
		}
		t, ok := validate.Text(*v)
		if !ok {
			return apperr.Validationf("%s must not be empty", col)
		}
		fields[col] = t
		return nil
	}
	for col, v := range map[string]*string{
		"name": upd.Name, "type": upd.Type, "unit": upd.Unit,
		"description": upd.Description, "location": upd.Location, "image": upd.Image,
	} {
		if err := strField(col, v); err != nil {
			return domain.Crop{}, err
		}
	}
	if upd.PricePerUnit != nil {
		if !validate.Price(*upd.PricePerUnit) {
			return domain.Crop{}, apperr.Validationf("pricePerUnit must be a positive number")
		}
		fields["price_per_unit"] = *upd.PricePerUnit
	}
	if upd.Quantity != nil {
		if !validate.Quantity(*upd.Quantity) {
			return domain.Crop{}, apperr.Validationf("quantity must be a non-negative number")
		}
		fields["quantity"] = *upd.Quantity
	}
	if len(fields) == 0 {
		return domain.Crop{}, apperr.Validationf("no editable fields supplied")
	}

	n, err := s.Crops.Update(id, ownerEmail, fields, domain.Now())
	if err != nil {
		return domain.Crop{}, apperr.Wrap("update crop", err)
	}
	if n == 0 {
		return domain.Crop{}, apperr.NotFoundf("crop not found")
	}
	return s.Get(id)
}

func (s *CropService) Delete(id string) error {
	id, ok := validate.ID(id)
	if !ok {
		return apperr.Validationf("invalid crop id")
	}
	n, err := s.Crops.Delete(id)
	if err != nil {
		return apperr.Wrap("delete crop", err)
	}
	if n == 0 {
		return apperr.NotFoundf("crop not found")
	}
	return nil
}
