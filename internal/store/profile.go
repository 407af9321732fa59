package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/naka6ryo/yubi-soccer/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Profile is a named classifier tuning. At most one profile is active; the
// pipeline loads the active profile's config at startup.
type Profile struct {
	ID        string
	Name      string
	Active    bool
	Config    gesture.Config
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepository provides CRUD operations for tuning profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(p *Profile) error {
	cfg, err := json.Marshal(p.Config)
	if err != nil {
		return err
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = r.db.Exec(
		`INSERT INTO profiles (id, name, active, config, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, boolToInt(p.Active), string(cfg), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	return r.getOne(`SELECT id, name, active, config, created_at, updated_at
		 FROM profiles WHERE id = ?`, id)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	return r.getOne(`SELECT id, name, active, config, created_at, updated_at
		 FROM profiles WHERE name = ?`, name)
}

// GetActive retrieves the active profile, or ErrNotFound when none is set.
func (r *ProfileRepository) GetActive() (*Profile, error) {
	return r.getOne(`SELECT id, name, active, config, created_at, updated_at
		 FROM profiles WHERE active = 1`)
}

func (r *ProfileRepository) getOne(query string, args ...any) (*Profile, error) {
	p := &Profile{}
	var active int
	var cfg string

	err := r.db.QueryRow(query, args...).
		Scan(&p.ID, &p.Name, &active, &cfg, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Active = active != 0
	if err := json.Unmarshal([]byte(cfg), &p.Config); err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves all profiles, newest first.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, active, config, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		var active int
		var cfg string

		if err := rows.Scan(&p.ID, &p.Name, &active, &cfg, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Active = active != 0
		if err := json.Unmarshal([]byte(cfg), &p.Config); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates an existing profile.
func (r *ProfileRepository) Update(p *Profile) error {
	cfg, err := json.Marshal(p.Config)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, active = ?, config = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, boolToInt(p.Active), string(cfg), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetActive marks the given profile active and every other profile inactive,
// in one transaction.
func (r *ProfileRepository) SetActive(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE profiles SET active = 0 WHERE active = 1`); err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE profiles SET active = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Delete removes a profile by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
