// Package store is the Postgres catalog Source over the wedding_dresses
// table. Filters are pushed down to SQL; list attributes are text[] columns.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/postgres"
)

// Schema creates the catalog table when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS wedding_dresses (
	id                INTEGER PRIMARY KEY,
	name              VARCHAR(100) NOT NULL,
	image_path        TEXT,
	silhouette        VARCHAR(50),
	shipin48hrs       BOOLEAN NOT NULL DEFAULT FALSE,
	neckline          VARCHAR(50),
	strapsleevelayout VARCHAR(50),
	length            VARCHAR(50),
	collection        VARCHAR(100),
	fabric            VARCHAR(50),
	color             VARCHAR(50),
	backstyle         VARCHAR(50),
	price             INTEGER NOT NULL DEFAULT 0,
	size_range        VARCHAR(20),
	tags              TEXT[] NOT NULL DEFAULT '{}',
	weddingvenue      TEXT[] NOT NULL DEFAULT '{}',
	season            VARCHAR(20),
	embellishments    TEXT[] NOT NULL DEFAULT '{}',
	features          TEXT[] NOT NULL DEFAULT '{}',
	has_pockets       BOOLEAN NOT NULL DEFAULT FALSE,
	corset_back       BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_wedding_dresses_price ON wedding_dresses (price);
`

const selectColumns = `id, name, COALESCE(image_path, ''), COALESCE(silhouette, ''), shipin48hrs,
	COALESCE(neckline, ''), COALESCE(strapsleevelayout, ''), COALESCE(length, ''),
	COALESCE(collection, ''), COALESCE(fabric, ''), COALESCE(color, ''), COALESCE(backstyle, ''),
	price, COALESCE(size_range, ''), tags, weddingvenue, COALESCE(season, ''),
	embellishments, features, has_pockets, corset_back`

// singleColumns maps single-valued facets to their column.
var singleColumns = map[string]string{
	catalog.FacetColor:      "color",
	catalog.FacetSilhouette: "silhouette",
	catalog.FacetNeckline:   "neckline",
	catalog.FacetLength:     "length",
	catalog.FacetFabric:     "fabric",
	catalog.FacetBackstyle:  "backstyle",
	catalog.FacetCollection: "collection",
	catalog.FacetSeason:     "season",
}

// listColumns maps list facets to their text[] column.
var listColumns = map[string]string{
	catalog.FacetTags:           "tags",
	catalog.FacetEmbellishments: "embellishments",
	catalog.FacetFeatures:       "features",
}

var flagColumns = map[string]string{
	catalog.FacetHasPockets:  "has_pockets",
	catalog.FacetCorsetBack:  "corset_back",
	catalog.FacetShipIn48Hrs: "shipin48hrs",
}

// Store reads and writes dresses in Postgres.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// New creates a Store backed by db.
func New(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "catalog-store"),
	}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrating catalog schema: %w", err)
	}
	return nil
}

// Query returns every dress matching q ordered by id.
func (s *Store) Query(ctx context.Context, q catalog.Query) ([]catalog.Dress, error) {
	query, args := buildQuery(q)
	rows, err := s.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying dresses: %w", err)
	}
	defer rows.Close()

	var dresses []catalog.Dress
	for rows.Next() {
		d, err := scanDress(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dress row: %w", err)
		}
		dresses = append(dresses, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dress rows: %w", err)
	}
	s.logger.Debug("catalog query", "filters", len(args), "rows", len(dresses))
	return dresses, nil
}

// Upsert inserts or replaces dresses by id in one transaction.
func (s *Store) Upsert(ctx context.Context, dresses []catalog.Dress) error {
	return s.db.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertSQL)
		if err != nil {
			return fmt.Errorf("preparing upsert: %w", err)
		}
		defer stmt.Close()
		for _, d := range dresses {
			if _, err := stmt.ExecContext(ctx,
				d.ID, d.Name, d.ImagePath, d.Silhouette, d.ShipIn48Hrs,
				d.Neckline, d.StrapSleeveLayout, d.Length, d.Collection, d.Fabric,
				d.Color, d.Backstyle, d.Price, d.SizeRange,
				pq.Array(nonNil(d.Tags)), pq.Array(nonNil(d.WeddingVenue)), d.Season,
				pq.Array(nonNil(d.Embellishments)), pq.Array(nonNil(d.Features)),
				d.HasPockets, d.CorsetBack,
			); err != nil {
				return fmt.Errorf("upserting dress %d: %w", d.ID, err)
			}
		}
		s.logger.Info("dresses upserted", "count", len(dresses))
		return nil
	})
}

// Count returns the number of stored dresses.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM wedding_dresses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting dresses: %w", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const upsertSQL = `
INSERT INTO wedding_dresses (
	id, name, image_path, silhouette, shipin48hrs,
	neckline, strapsleevelayout, length, collection, fabric,
	color, backstyle, price, size_range,
	tags, weddingvenue, season, embellishments, features,
	has_pockets, corset_back
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name, image_path = EXCLUDED.image_path, silhouette = EXCLUDED.silhouette,
	shipin48hrs = EXCLUDED.shipin48hrs, neckline = EXCLUDED.neckline,
	strapsleevelayout = EXCLUDED.strapsleevelayout, length = EXCLUDED.length,
	collection = EXCLUDED.collection, fabric = EXCLUDED.fabric, color = EXCLUDED.color,
	backstyle = EXCLUDED.backstyle, price = EXCLUDED.price, size_range = EXCLUDED.size_range,
	tags = EXCLUDED.tags, weddingvenue = EXCLUDED.weddingvenue, season = EXCLUDED.season,
	embellishments = EXCLUDED.embellishments, features = EXCLUDED.features,
	has_pockets = EXCLUDED.has_pockets, corset_back = EXCLUDED.corset_back`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDress(row rowScanner) (catalog.Dress, error) {
	var d catalog.Dress
	var tags, venues, embellishments, features pq.StringArray
	err := row.Scan(
		&d.ID, &d.Name, &d.ImagePath, &d.Silhouette, &d.ShipIn48Hrs,
		&d.Neckline, &d.StrapSleeveLayout, &d.Length,
		&d.Collection, &d.Fabric, &d.Color, &d.Backstyle,
		&d.Price, &d.SizeRange, &tags, &venues, &d.Season,
		&embellishments, &features, &d.HasPockets, &d.CorsetBack,
	)
	d.Tags = tags
	d.WeddingVenue = venues
	d.Embellishments = embellishments
	d.Features = features
	return d, err
}

// buildQuery renders q as a parameterised SELECT. Facet matching is
// case-insensitive and ignores surrounding whitespace, like Query.Matches.
func buildQuery(q catalog.Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	facets := q.Facets()
	for _, key := range catalog.FacetKeys {
		values, ok := facets[key]
		if !ok {
			continue
		}
		lowered := make([]string, len(values))
		for i, v := range values {
			lowered[i] = strings.ToLower(v)
		}
		if col, ok := singleColumns[key]; ok {
			where = append(where, fmt.Sprintf("lower(trim(COALESCE(%s, ''))) = ANY(%s)", col, arg(pq.Array(lowered))))
		} else if col, ok := listColumns[key]; ok {
			where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS v WHERE lower(trim(v)) = ANY(%s))", col, arg(pq.Array(lowered))))
		}
	}

	flags := q.Flags()
	for _, key := range catalog.FacetKeys {
		if want, ok := flags[key]; ok {
			where = append(where, fmt.Sprintf("%s = %s", flagColumns[key], arg(want)))
		}
	}
	if q.PriceMin != nil {
		where = append(where, "price >= "+arg(*q.PriceMin))
	}
	if q.PriceMax != nil {
		where = append(where, "price <= "+arg(*q.PriceMax))
	}

	var b strings.Builder
	b.WriteString("SELECT " + selectColumns + " FROM wedding_dresses")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id")
	return b.String(), args
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
