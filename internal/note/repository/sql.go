package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"scrawl/internal/note/model"
)

// SQLStore persists notes in a relational table. It speaks both postgres
// (lib/pq) and sqlite (mattn/go-sqlite3); the dialects differ only in DDL
// and placeholder style.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

type dialect struct {
	name   string
	dollar bool // rebind ? placeholders to $1..$n
	schema string
}

var dialects = map[string]dialect{
	"postgres": {
		name:   "postgres",
		dollar: true,
		schema: `
CREATE TABLE IF NOT EXISTS notes (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	preview TEXT NOT NULL DEFAULT '',
	recognized_text TEXT,
	is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes (updated_at DESC, id DESC);`,
	},
	"sqlite": {
		name: "sqlite",
		schema: `
CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	preview TEXT NOT NULL DEFAULT '',
	recognized_text TEXT,
	is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes (updated_at DESC, id DESC);`,
	},
}

const noteColumns = "id, title, content, preview, recognized_text, is_favorite, created_at, updated_at"

// NewSQLStore initialises the schema and returns a store bound to db.
// Driver is "postgres" or "sqlite".
func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if _, err := db.Exec(d.schema); err != nil {
		return nil, fmt.Errorf("init %s schema: %w", d.name, err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// rebind converts ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func scanNote(row interface{ Scan(...any) error }) (model.Note, error) {
	var n model.Note
	var recognized sql.NullString
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Preview, &recognized, &n.IsFavorite, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return model.Note{}, err
	}
	if recognized.Valid {
		n.RecognizedText = &recognized.String
	}
	return n, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (s *SQLStore) List(ctx context.Context) ([]model.Note, error) {
	query := "SELECT " + noteColumns + " FROM notes ORDER BY updated_at DESC, id DESC"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (model.Note, bool, error) {
	query := s.dialect.rebind("SELECT " + noteColumns + " FROM notes WHERE id = ?")
	n, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, false, nil
	}
	if err != nil {
		return model.Note{}, false, fmt.Errorf("get note %d: %w", id, err)
	}
	return n, true, nil
}

func (s *SQLStore) Create(ctx context.Context, in model.NewNote) (model.Note, error) {
	now := model.Now()
	n := model.Note{
		Title:          in.Title,
		Content:        in.Content,
		Preview:        in.Preview,
		RecognizedText: in.RecognizedText,
		IsFavorite:     in.IsFavorite,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	query := s.dialect.rebind(`INSERT INTO notes (title, content, preview, recognized_text, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := s.db.QueryRowContext(ctx, query,
		n.Title, n.Content, n.Preview, nullable(n.RecognizedText), n.IsFavorite, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
	if err != nil {
		return model.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (s *SQLStore) Update(ctx context.Context, id int64, patch model.NotePatch) (model.Note, bool, error) {
	current, ok, err := s.Get(ctx, id)
	if err != nil || !ok {
		return model.Note{}, ok, err
	}

	merged := current.Apply(patch, model.Now())
	query := s.dialect.rebind(`UPDATE notes SET title = ?, content = ?, preview = ?, recognized_text = ?, is_favorite = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query,
		merged.Title, merged.Content, merged.Preview, nullable(merged.RecognizedText), merged.IsFavorite, merged.UpdatedAt, id,
	)
	if err != nil {
		return model.Note{}, false, fmt.Errorf("update note %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Note{}, false, fmt.Errorf("update note %d: %w", id, err)
	}
	// The row can vanish between the read and the write; report it absent.
	if affected == 0 {
		return model.Note{}, false, nil
	}
	return merged, true, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) (bool, error) {
	query := s.dialect.rebind("DELETE FROM notes WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete note %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete note %d: %w", id, err)
	}
	return affected > 0, nil
}
