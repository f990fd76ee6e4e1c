package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"serveur/internal/core"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// CREATE
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, m *Menu) error {
	data, err := json.Marshal(m.Document)
	if err != nil {
		return fmt.Errorf("marshal menu document: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO menus (
			restaurant_name,
			slug,
			pdf_path,
			languages,
			menu_json,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, created_at
	`,
		m.RestaurantName,
		m.Slug,
		m.PDFPath,
		strings.Join(m.Languages, ","),
		data,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlugTaken
		}
		return err
	}

	return nil
}

// --------------------------------------------------
// FIND BY SLUG
// --------------------------------------------------
func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Menu, error) {
	var (
		m         Menu
		languages string
		data      []byte
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, restaurant_name, slug, pdf_path, languages, menu_json, created_at
		FROM menus
		WHERE slug = $1
	`, slug).Scan(
		&m.ID,
		&m.RestaurantName,
		&m.Slug,
		&m.PDFPath,
		&languages,
		&data,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrMenuNotFound
		}
		return nil, err
	}

	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode menu %s: %w", slug, err)
	}

	m.Document = &doc
	m.Languages = splitLanguages(languages)
	return &m, nil
}

// --------------------------------------------------
// SITEMAP
// --------------------------------------------------
func (r *PostgresRepository) ListSitemap(ctx context.Context) ([]SitemapEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slug, created_at
		FROM menus
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []SitemapEntry{}
	for rows.Next() {
		var e SitemapEntry
		if err := rows.Scan(&e.Slug, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func splitLanguages(csv string) []string {
	out := []string{}
	for _, l := range strings.Split(csv, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
