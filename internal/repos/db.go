package repos

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"farmlink/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	memory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
	if !memory && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		// A pooled second connection would open a fresh empty database;
		// a single connection also keeps the foreign_keys pragma applied.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a couple of demo listings if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Crop listings
CREATE TABLE IF NOT EXISTS crops(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  price_per_unit NUMERIC NOT NULL CHECK (price_per_unit > 0),
  unit TEXT NOT NULL,
  quantity NUMERIC NOT NULL CHECK (quantity >= 0),
  description TEXT NOT NULL,
  location TEXT NOT NULL,
  image TEXT NOT NULL,
  owner_email TEXT NOT NULL,
  owner_name TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_crops_search     ON crops(name, type, location, description);
CREATE INDEX IF NOT EXISTS idx_crops_owner      ON crops(LOWER(owner_email));
CREATE INDEX IF NOT EXISTS idx_crops_created_at ON crops(created_at);

-- Interests, owned by their crop (deleted with it)
CREATE TABLE IF NOT EXISTS interests(
  id TEXT PRIMARY KEY,
  crop_id TEXT NOT NULL REFERENCES crops(id) ON DELETE CASCADE,
  crop_name TEXT NOT NULL,
  owner_email TEXT NOT NULL,
  owner_name TEXT NOT NULL,
  requester_email TEXT NOT NULL,
  requester_name TEXT NOT NULL,
  requester_photo TEXT NOT NULL DEFAULT '',
  quantity NUMERIC NOT NULL CHECK (quantity >= 1),
  message TEXT NOT NULL DEFAULT '',
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','rejected')),
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_interests_requester ON interests(crop_id, LOWER(requester_email));
CREATE INDEX IF NOT EXISTS idx_interests_email ON interests(LOWER(requester_email));
CREATE INDEX IF NOT EXISTS idx_interests_crop  ON interests(crop_id);

-- Users, keyed by email (stored lower-cased)
CREATE TABLE IF NOT EXISTS users(
  email TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  photo TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM crops`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo crop listings")

	now := domain.Now()
	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO crops(id,name,type,price_per_unit,unit,quantity,description,location,image,owner_email,owner_name,created_at,updated_at) VALUES
	  ('crop-basmati','Basmati Rice','grain',42.50,'kg',500,'Aged long-grain basmati, this season''s harvest','Karnal','crops/basmati.jpg','demo.farmer@farmlink.test','Demo Farmer',?,?),
	  ('crop-alphonso','Alphonso Mango','fruit',180.00,'dozen',60,'Tree-ripened Alphonso mangoes','Ratnagiri','crops/alphonso.jpg','demo.farmer@farmlink.test','Demo Farmer',?,?)`,
		now, now, now, now)

	return tx.Commit()
}
