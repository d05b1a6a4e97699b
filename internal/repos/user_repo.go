package repos

import (
	"github.com/jmoiron/sqlx"

	"farmlink/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Upsert inserts the user or refreshes name/photo/updated_at for an
// existing email. Emails are stored lower-cased by the service layer, so
// the primary key doubles as the case-insensitive uniqueness guard.
func (r *UserRepo) Upsert(u *domain.User) error {
	_, err := r.db.Exec(`
	  INSERT INTO users(email,name,photo,created_at,updated_at)
	  VALUES(?,?,?,?,?)
	  ON CONFLICT(email) DO UPDATE SET
	    name = excluded.name,
	    photo = excluded.photo,
	    updated_at = excluded.updated_at`,
		u.Email, u.Name, u.Photo, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepo) ByEmail(email string) (domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
	  SELECT email,name,photo,created_at,updated_at
	  FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return u, err
}

// Patch updates name and/or photo (nil means leave unchanged). Returns
// the number of rows touched.
func (r *UserRepo) Patch(email string, name, photo *string, now string) (int64, error) {
	set := ``
	args := []any{}
	if name != nil {
		set += `name = ?, `
		args = append(args, *name)
	}
	if photo != nil {
		set += `photo = ?, `
		args = append(args, *photo)
	}
	set += `updated_at = ?`
	args = append(args, now, email)

	res, err := r.db.Exec(`UPDATE users SET `+set+` WHERE LOWER(email) = LOWER(?)`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
