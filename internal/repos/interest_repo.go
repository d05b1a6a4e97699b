package repos

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"farmlink/internal/domain"
)

// Sentinels for the accept transition; the service layer translates them
// into client-facing error kinds.
var (
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrNotPending           = errors.New("interest is not pending")
)

type InterestRepo struct{ db *sqlx.DB }

func NewInterestRepo(db *sqlx.DB) *InterestRepo { return &InterestRepo{db: db} }

const interestCols = `id, crop_id, crop_name, owner_email, owner_name, requester_email,
    requester_name, requester_photo, quantity, message, total_price, status, created_at, updated_at`

// Insert appends the interest to its crop and refreshes the crop's
// updated_at in the same transaction.
func (r *InterestRepo) Insert(it *domain.Interest) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO interests(id,crop_id,crop_name,owner_email,owner_name,requester_email,requester_name,
	    requester_photo,quantity,message,total_price,status,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		it.ID, it.CropID, it.CropName, it.OwnerEmail, it.OwnerName, it.RequesterEmail, it.RequesterName,
		it.RequesterPhoto, it.Quantity, it.Message, it.TotalPrice, it.Status, it.CreatedAt, it.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE crops SET updated_at = ? WHERE id = ?`, it.UpdatedAt, it.CropID); err != nil {
		return err
	}
	return tx.Commit()
}

// ExistsFor reports whether the requester already has an interest on the crop.
func (r *InterestRepo) ExistsFor(cropID, email string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM interests
	  WHERE crop_id = ? AND LOWER(requester_email) = LOWER(?)`, cropID, email)
	return n > 0, err
}

func (r *InterestRepo) Get(cropID, interestID string) (domain.Interest, error) {
	var it domain.Interest
	err := r.db.Get(&it, `SELECT `+interestCols+` FROM interests WHERE id = ? AND crop_id = ?`, interestID, cropID)
	return it, err
}

// ListByRequester returns the requester's interests joined with each
// crop's current listing details. orderBy must come from the sort-key
// allowlist, never from raw caller input.
func (r *InterestRepo) ListByRequester(email, orderBy string) ([]domain.InterestView, error) {
	out := []domain.InterestView{}
	err := r.db.Select(&out, `
	  SELECT i.id, i.crop_id, c.name AS crop_name, i.owner_email, i.owner_name,
	         i.requester_email, i.requester_name, i.requester_photo,
	         i.quantity, i.message, i.total_price, i.status, i.created_at, i.updated_at,
	         c.image AS crop_image, c.price_per_unit AS crop_price, c.unit AS crop_unit,
	         c.location AS crop_location
	  FROM interests i
	  JOIN crops c ON c.id = i.crop_id
	  WHERE LOWER(i.requester_email) = LOWER(?)
	  ORDER BY `+orderBy, email)
	return out, err
}

// SetStatus writes a non-decrementing transition (rejected, or back to
// pending). Returns the number of rows touched.
func (r *InterestRepo) SetStatus(cropID, interestID, status, now string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE interests SET status = ?, updated_at = ?
	  WHERE id = ? AND crop_id = ?`, status, now, interestID, cropID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Accept marks the interest accepted and decrements the crop's quantity
// in one transaction keyed by crop id. The status write only fires while
// the interest is still pending and the decrement only fires while enough
// quantity remains, so a concurrent or repeated accept can never
// double-decrement or leave a half-applied transition. The status check
// runs first so a re-accept reports ErrNotPending rather than a spurious
// quantity failure.
func (r *InterestRepo) Accept(cropID, interestID string, qty float64, now string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE interests SET status = ?, updated_at = ?
	  WHERE id = ? AND crop_id = ? AND status = ?`,
		domain.StatusAccepted, now, interestID, cropID, domain.StatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotPending
	}

	res, err = tx.Exec(`
	  UPDATE crops SET quantity = quantity - ?, updated_at = ?
	  WHERE id = ? AND quantity >= ?`, qty, now, cropID, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// rollback reverts the status write
		return ErrInsufficientQuantity
	}

	return tx.Commit()
}
