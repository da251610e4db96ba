package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/auth"
)

var ErrNotFound = errors.New("not found")

// ids derived from natural keys stay stable across re-imports, so ascents
// keep pointing at the same routes.
var idNamespace = uuid.MustParse("5b0c2f0e-6a2e-4c55-9a43-8f0c1d7f3a21")

func stableID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and migrates) the catalog database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := migrateStore(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrateStore(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS crags (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS sectors (
			id TEXT PRIMARY KEY,
			crag_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS sectors_crag ON sectors (crag_id, position);`,
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			crag_id TEXT NOT NULL,
			sector_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			grade TEXT NOT NULL DEFAULT '',
			difficulty REAL,
			length REAL,
			star_rating INTEGER NOT NULL DEFAULT 0,
			nr_ticks INTEGER NOT NULL DEFAULT 0,
			nr_tries INTEGER NOT NULL DEFAULT 0,
			nr_climbers INTEGER NOT NULL DEFAULT 0,
			nr_comments INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS routes_sector ON routes (sector_id, position);`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			login TEXT NOT NULL UNIQUE,
			firstname TEXT NOT NULL DEFAULT '',
			lastname TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS ascents (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			route_id TEXT NOT NULL,
			ascent_type TEXT NOT NULL,
			date TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS ascents_user ON ascents (user_id, route_id);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("catalog migration failed: %w", err)
		}
	}
	return nil
}

// Path is the database file, watched for writes from other processes.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Import replaces the crag's sectors and routes with the seed and adds its
// climbers and their ascents. Re-importing the same seed is idempotent.
func (s *Store) Import(ctx context.Context, seed *CragSeed) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("catalog is not open")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	cragID := stableID("crag", seed.Slug)
	if _, err := tx.ExecContext(ctx, `INSERT INTO crags (id, slug, name, country, description) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET name = excluded.name, country = excluded.country, description = excluded.description`,
		cragID, seed.Slug, seed.Name, seed.Country, seed.Description); err != nil {
		return "", fmt.Errorf("import crag %q: %w", seed.Slug, err)
	}
	for _, stmt := range []string{
		`DELETE FROM routes WHERE crag_id = ?`,
		`DELETE FROM sectors WHERE crag_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, cragID); err != nil {
			return "", err
		}
	}

	routeIDs := make(map[string]string)
	for i, sec := range seed.Sectors {
		sectorID := stableID("sector", seed.Slug, fmt.Sprint(i))
		if _, err := tx.ExecContext(ctx, `INSERT INTO sectors (id, crag_id, position, label, name) VALUES (?, ?, ?, ?, ?)`,
			sectorID, cragID, i, sec.Label, sec.Name); err != nil {
			return "", fmt.Errorf("import sector %q: %w", sec.Name, err)
		}
		for j, r := range sec.Routes {
			routeID := stableID("route", seed.Slug, r.Slug)
			routeIDs[r.Slug] = routeID
			if _, err := tx.ExecContext(ctx, `INSERT INTO routes (id, crag_id, sector_id, position, slug, name, grade, difficulty, length,
					star_rating, nr_ticks, nr_tries, nr_climbers, nr_comments)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				routeID, cragID, sectorID, j, r.Slug, r.Name, r.Grade, nullFloat(r.Difficulty), nullFloat(r.Length),
				r.Stars, r.Ticks, r.Tries, r.Climbers, r.Comments); err != nil {
				return "", fmt.Errorf("import route %q: %w", r.Name, err)
			}
		}
	}

	for _, c := range seed.Climbers {
		userID, err := upsertUser(ctx, tx, c)
		if err != nil {
			return "", err
		}
		for _, a := range c.Ascents {
			t, ok := ascents.ParseType(a.Type)
			if !ok {
				return "", fmt.Errorf("climber %q: unknown ascent type %q", c.Login, a.Type)
			}
			routeID := routeIDs[a.Route]
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO ascents (id, user_id, route_id, ascent_type, date) VALUES (?, ?, ?, ?, ?)`,
				stableID("ascent", c.Login, routeID, string(t), a.Date), userID, routeID, string(t), a.Date); err != nil {
				return "", fmt.Errorf("import ascent of %q: %w", a.Route, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return cragID, nil
}

func upsertUser(ctx context.Context, tx *sql.Tx, u UserSeed) (string, error) {
	login := strings.TrimSpace(u.Login)
	id := stableID("user", login)
	_, err := tx.ExecContext(ctx, `INSERT INTO users (id, login, firstname, lastname) VALUES (?, ?, ?, ?)
		ON CONFLICT(login) DO UPDATE SET firstname = excluded.firstname, lastname = excluded.lastname`,
		id, login, u.Firstname, u.Lastname)
	if err != nil {
		return "", fmt.Errorf("import climber %q: %w", login, err)
	}
	return id, nil
}

// Crags lists crags without their sectors, ordered by name.
func (s *Store) Crags(ctx context.Context) ([]Crag, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, name, country, description FROM crags ORDER BY name ASC, slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Crag
	for rows.Next() {
		var c Crag
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Country, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Crag loads a crag with its sectors and routes in catalog order.
func (s *Store) Crag(ctx context.Context, slug string) (*Crag, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotFound
	}
	var c Crag
	err := s.db.QueryRowContext(ctx, `SELECT id, slug, name, country, description FROM crags WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Slug, &c.Name, &c.Country, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("crag %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	secRows, err := s.db.QueryContext(ctx, `SELECT id, position, label, name FROM sectors WHERE crag_id = ? ORDER BY position ASC`, c.ID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int)
	for secRows.Next() {
		var sec Sector
		if err := secRows.Scan(&sec.ID, &sec.Position, &sec.Label, &sec.Name); err != nil {
			secRows.Close()
			return nil, err
		}
		index[sec.ID] = len(c.Sectors)
		c.Sectors = append(c.Sectors, sec)
	}
	if err := secRows.Err(); err != nil {
		secRows.Close()
		return nil, err
	}
	secRows.Close()

	routeRows, err := s.db.QueryContext(ctx, `SELECT r.id, r.slug, r.sector_id, r.position, r.name, r.grade, r.difficulty, r.length,
			r.star_rating, r.nr_ticks, r.nr_tries, r.nr_climbers, r.nr_comments
		FROM routes r JOIN sectors s ON s.id = r.sector_id
		WHERE r.crag_id = ? ORDER BY s.position ASC, r.position ASC`, c.ID)
	if err != nil {
		return nil, err
	}
	defer routeRows.Close()
	for routeRows.Next() {
		var (
			r          Route
			difficulty sql.NullFloat64
			length     sql.NullFloat64
		)
		if err := routeRows.Scan(&r.ID, &r.Slug, &r.SectorID, &r.Position, &r.Name, &r.Grade, &difficulty, &length,
			&r.StarRating, &r.NrTicks, &r.NrTries, &r.NrClimbers, &r.NrComments); err != nil {
			return nil, err
		}
		r.Difficulty = floatPtr(difficulty)
		r.Length = floatPtr(length)
		i, ok := index[r.SectorID]
		if !ok {
			continue
		}
		r.SectorName = c.Sectors[i].Title()
		c.Sectors[i].Routes = append(c.Sectors[i].Routes, r)
	}
	if err := routeRows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// User looks a climber up by login.
func (s *Store) User(ctx context.Context, login string) (*auth.User, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotFound
	}
	var u auth.User
	err := s.db.QueryRowContext(ctx, `SELECT id, firstname, lastname FROM users WHERE login = ?`, strings.TrimSpace(login)).
		Scan(&u.ID, &u.Firstname, &u.Lastname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("climber %q: %w", login, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.FullName = strings.TrimSpace(u.Firstname + " " + u.Lastname)
	return &u, nil
}

// LogAscent records an ascent and returns its id.
func (s *Store) LogAscent(ctx context.Context, userID, routeID string, t ascents.Type, date time.Time) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("catalog is not open")
	}
	if _, ok := ascents.ParseType(string(t)); !ok {
		return "", fmt.Errorf("unknown ascent type %q", t)
	}
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes WHERE id = ?`, routeID).Scan(&exists); err != nil {
		return "", err
	}
	if exists == 0 {
		return "", fmt.Errorf("route %q: %w", routeID, ErrNotFound)
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO ascents (id, user_id, route_id, ascent_type, date) VALUES (?, ?, ?, ?, ?)`,
		id, userID, routeID, string(t), date.Format(time.DateOnly))
	if err != nil {
		return "", err
	}
	return id, nil
}

// Summary returns the source of userID's best ascent per route of a crag.
func (s *Store) Summary(userID string) ascents.Source {
	return ascents.SourceFunc(func(ctx context.Context, cragID string) ([]ascents.Record, error) {
		return s.cragSummary(ctx, userID, cragID)
	})
}

func (s *Store) cragSummary(ctx context.Context, userID, cragID string) ([]ascents.Record, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.slug, a.ascent_type, a.date
		FROM ascents a JOIN routes r ON r.id = a.route_id
		WHERE a.user_id = ? AND r.crag_id = ?`, userID, cragID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	best := make(map[string]ascents.Record)
	for rows.Next() {
		var (
			rec ascents.Record
			raw string
		)
		if err := rows.Scan(&rec.Route.ID, &rec.Route.Slug, &raw, &rec.Date); err != nil {
			return nil, err
		}
		t, ok := ascents.ParseType(raw)
		if !ok {
			continue
		}
		rec.AscentType = t
		if prev, ok := best[rec.Route.ID]; ok && prev.AscentType.Rank() <= t.Rank() {
			continue
		}
		best[rec.Route.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ascents.Record, 0, len(best))
	for _, rec := range best {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route.ID < out[j].Route.ID })
	return out, nil
}

// LoginResolver signs in the climber with the configured login.
type LoginResolver struct {
	Store *Store
	Login string
}

func (r LoginResolver) Status(ctx context.Context) (auth.Status, error) {
	if strings.TrimSpace(r.Login) == "" {
		return auth.LoggedOut(), nil
	}
	u, err := r.Store.User(ctx, r.Login)
	if err != nil {
		return auth.LoggedOut(), err
	}
	return auth.LoggedInAs(*u), nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
