package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"farmlink/internal/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type CropRepo struct{ db *sqlx.DB }

func NewCropRepo(db *sqlx.DB) *CropRepo { return &CropRepo{db: db} }

// CropFilter narrows List. Search is matched case-insensitively as a
// substring of name, type, location or description (OR across fields);
// OwnerEmail is an exact (case-insensitive) owner match.
type CropFilter struct {
	Search     string
	OwnerEmail string
	Limit      int
	Offset     int
}

const cropCols = `id, name, type, price_per_unit, unit, quantity, description, location, image,
    owner_email, owner_name, created_at, updated_at`

// editable is the whitelist of columns Update may touch.
var editable = []string{"name", "type", "price_per_unit", "unit", "quantity", "description", "location", "image"}

func (r *CropRepo) Insert(c *domain.Crop) error {
	_, err := r.db.Exec(`
	  INSERT INTO crops(id,name,type,price_per_unit,unit,quantity,description,location,image,owner_email,owner_name,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.Name, c.Type, c.PricePerUnit, c.Unit, c.Quantity, c.Description, c.Location, c.Image,
		c.OwnerEmail, c.OwnerName, c.CreatedAt, c.UpdatedAt)
	return err
}

// Get returns the crop with its embedded interests in submission order.
func (r *CropRepo) Get(id string) (domain.Crop, error) {
	var c domain.Crop
	err := r.db.Get(&c, `SELECT `+cropCols+` FROM crops WHERE id = ?`, id)
	if err != nil {
		return c, err
	}
	if err := r.attachInterests([]*domain.Crop{&c}); err != nil {
		return c, err
	}
	return c, nil
}

func (r *CropRepo) List(f CropFilter) ([]domain.Crop, error) {
	where := `1=1`
	args := []any{}
	if f.Search != "" {
		// Escape LIKE metacharacters so the filter stays a literal substring match
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		where += ` AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(type) LIKE ? ESCAPE '\'
		  OR LOWER(location) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`
		args = append(args, like, like, like, like)
	}
	if f.OwnerEmail != "" {
		where += ` AND LOWER(owner_email) = LOWER(?)`
		args = append(args, f.OwnerEmail)
	}

	q := `SELECT ` + cropCols + ` FROM crops WHERE ` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	out := []domain.Crop{}
	if err := r.db.Select(&out, q, args...); err != nil {
		return nil, err
	}
	refs := make([]*domain.Crop, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.attachInterests(refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CropRepo) Latest(limit int) ([]domain.Crop, error) {
	return r.List(CropFilter{Limit: limit})
}

// Update merges the supplied columns and refreshes updated_at. When
// ownerEmail is non-empty the update only matches if the crop belongs to
// that owner. Returns the number of rows touched.
func (r *CropRepo) Update(id, ownerEmail string, fields map[string]any, now string) (int64, error) {
	set := ``
	args := []any{}
	for _, col := range editable {
		v, ok := fields[col]
		if !ok {
			continue
		}
		set += col + ` = ?, `
		args = append(args, v)
	}
	set += `updated_at = ?`
	args = append(args, now, id)

	q := `UPDATE crops SET ` + set + ` WHERE id = ?`
	if ownerEmail != "" {
		q += ` AND LOWER(owner_email) = LOWER(?)`
		args = append(args, ownerEmail)
	}
	res, err := r.db.Exec(q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the crop; interests go with it via the cascade.
func (r *CropRepo) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM crops WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CropRepo) attachInterests(crops []*domain.Crop) error {
	byID := make(map[string]*domain.Crop, len(crops))
	ids := make([]string, 0, len(crops))
	for _, c := range crops {
		c.Interests = []domain.Interest{}
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	q, args, err := sqlx.In(`
	  SELECT id, crop_id, crop_name, owner_email, owner_name, requester_email, requester_name,
	         requester_photo, quantity, message, total_price, status, created_at, updated_at
	  FROM interests WHERE crop_id IN (?) ORDER BY created_at ASC`, ids)
	if err != nil {
		return err
	}
	var rows []domain.Interest
	if err := r.db.Select(&rows, q, args...); err != nil {
		return err
	}
	for _, it := range rows {
		if c, ok := byID[it.CropID]; ok {
			c.Interests = append(c.Interests, it)
		}
	}
	return nil
}
