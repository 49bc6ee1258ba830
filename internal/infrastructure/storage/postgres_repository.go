package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categorie (
		id_categorie SERIAL PRIMARY KEY,
		nom_categorie TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS magasin (
		id_magasin SERIAL PRIMARY KEY,
		nom_magasin TEXT NOT NULL,
		enseigne TEXT,
		url_magasin TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS produit (
		id_produit SERIAL PRIMARY KEY,
		nom_produit TEXT NOT NULL,
		marque TEXT,
		code_barres TEXT,
		id_categorie INTEGER REFERENCES categorie(id_categorie)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS produit_code_barres_key
		ON produit (code_barres) WHERE code_barres IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS produit_nom_marque_cat_key
		ON produit (nom_produit, COALESCE(marque, ''), id_categorie)
		WHERE code_barres IS NULL`,
	`CREATE TABLE IF NOT EXISTS observation_prix (
		id_observation SERIAL PRIMARY KEY,
		id_produit INTEGER NOT NULL REFERENCES produit(id_produit),
		id_magasin INTEGER NOT NULL REFERENCES magasin(id_magasin),
		prix NUMERIC(10,2) NOT NULL,
		url_produit TEXT,
		source TEXT,
		date_releve TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var sortClauses = map[string]string{
	"prix_asc":  "prix ASC NULLS LAST",
	"prix_desc": "prix DESC NULLS LAST",
	"nom_asc":   "nom_produit ASC",
	"nom_desc":  "nom_produit DESC",
}

// PostgresRepository persists observations into the relational price history
// and serves the query page reads.
type PostgresRepository struct {
	db *sql.DB
}

var (
	_ ports.ObservationRepository = (*PostgresRepository)(nil)
	_ ports.PriceQuerier          = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InitSchema creates the tables and indexes when they do not exist yet.
func (r *PostgresRepository) InitSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// SaveObservations imports a batch inside one transaction. Observations
// without a resolved numeric price are skipped: the history table only holds
// comparable prices.
func (r *PostgresRepository) SaveObservations(ctx context.Context, observations []domain.ProductObservation) error {
	if r.db == nil || len(observations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, obs := range observations {
		if obs.PriceValue == nil {
			continue
		}

		categoryID, err := r.ensureCategory(ctx, tx, obs.Category)
		if err != nil {
			return err
		}
		storeID, err := r.ensureStore(ctx, tx, obs.StoreName, obs.StoreURL, obs.Channel)
		if err != nil {
			return err
		}
		productID, err := r.ensureProduct(ctx, tx, obs, categoryID)
		if err != nil {
			return err
		}

		query, args, err := psql.Insert("observation_prix").
			Columns("id_produit", "id_magasin", "prix", "url_produit", "source").
			Values(productID, storeID, *obs.PriceValue, nullable(obs.ProductURL), nullable(obs.Channel)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build observation insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert observation %q: %w", obs.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ensureCategory(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	query := `INSERT INTO categorie (nom_categorie) VALUES ($1)
	          ON CONFLICT (nom_categorie) DO UPDATE SET nom_categorie = EXCLUDED.nom_categorie
	          RETURNING id_categorie`

	var id int64
	if err := tx.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert category %q: %w", name, err)
	}
	return id, nil
}

func (r *PostgresRepository) ensureStore(ctx context.Context, tx *sql.Tx, name, url, enseigne string) (int64, error) {
	query := `INSERT INTO magasin (nom_magasin, enseigne, url_magasin) VALUES ($1, $2, $3)
	          ON CONFLICT (url_magasin) DO UPDATE
	          SET nom_magasin = EXCLUDED.nom_magasin,
	              enseigne = COALESCE(EXCLUDED.enseigne, magasin.enseigne)
	          RETURNING id_magasin`

	var id int64
	if err := tx.QueryRowContext(ctx, query, name, nullable(enseigne), url).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert store %q: %w", name, err)
	}
	return id, nil
}

// ensureProduct resolves the product row. Barcoded products are identified by
// the barcode alone; the rest by name, brand and category.
func (r *PostgresRepository) ensureProduct(ctx context.Context, tx *sql.Tx, obs domain.ProductObservation, categoryID int64) (int64, error) {
	var (
		query string
		args  []any
	)
	if obs.Barcode != "" {
		query = `INSERT INTO produit (nom_produit, marque, code_barres, id_categorie)
		         VALUES ($1, $2, $3, $4)
		         ON CONFLICT (code_barres) WHERE code_barres IS NOT NULL DO UPDATE
		         SET nom_produit = EXCLUDED.nom_produit,
		             marque = COALESCE(EXCLUDED.marque, produit.marque),
		             id_categorie = EXCLUDED.id_categorie
		         RETURNING id_produit`
		args = []any{obs.Name, nullable(obs.Brand), obs.Barcode, categoryID}
	} else {
		query = `INSERT INTO produit (nom_produit, marque, code_barres, id_categorie)
		         VALUES ($1, $2, NULL, $3)
		         ON CONFLICT (nom_produit, COALESCE(marque, ''), id_categorie) WHERE code_barres IS NULL DO UPDATE
		         SET nom_produit = EXCLUDED.nom_produit
		         RETURNING id_produit`
		args = []any{obs.Name, nullable(obs.Brand), categoryID}
	}

	var id int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert product %q: %w", obs.Name, err)
	}
	return id, nil
}

// Categories lists known categories, alphabetically.
func (r *PostgresRepository) Categories(ctx context.Context) ([]domain.CategoryRef, error) {
	query, args, err := psql.Select("id_categorie", "nom_categorie").
		From("categorie").
		OrderBy("nom_categorie ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var refs []domain.CategoryRef
	for rows.Next() {
		var ref domain.CategoryRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return refs, nil
}

// Brands lists distinct non-empty brands, alphabetically.
func (r *PostgresRepository) Brands(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT TRIM(marque) FROM produit
	          WHERE marque IS NOT NULL AND TRIM(marque) <> ''
	          ORDER BY 1 ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var brand string
		if err := rows.Scan(&brand); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return brands, nil
}

// Stores lists known stores, alphabetically.
func (r *PostgresRepository) Stores(ctx context.Context) ([]domain.StoreRef, error) {
	query, args, err := psql.Select("id_magasin", "nom_magasin").
		From("magasin").
		OrderBy("nom_magasin ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build store list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var refs []domain.StoreRef
	for rows.Next() {
		var ref domain.StoreRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return refs, nil
}

// MinPrices returns the lowest observed price per product matching the
// filters, capped at 200 rows.
func (r *PostgresRepository) MinPrices(ctx context.Context, q domain.PriceQuery) ([]domain.PriceRow, error) {
	builder := psql.Select(
		"p.nom_produit",
		"COALESCE(p.marque, '') AS marque",
		"p.id_categorie",
		"c.nom_categorie",
		"MIN(op.prix) AS prix",
	).
		From("produit p").
		Join("categorie c ON c.id_categorie = p.id_categorie").
		Join("observation_prix op ON op.id_produit = p.id_produit")

	if name := strings.TrimSpace(q.Name); name != "" {
		builder = builder.Where(sq.ILike{"p.nom_produit": "%" + name + "%"})
	}
	if brand := strings.TrimSpace(q.Brand); brand != "" {
		builder = builder.Where(sq.Expr("TRIM(p.marque) = ?", brand))
	}
	if q.CategoryID != 0 {
		builder = builder.Where(sq.Eq{"p.id_categorie": q.CategoryID})
	}
	if q.StoreID != 0 {
		builder = builder.Where(sq.Eq{"op.id_magasin": q.StoreID})
	}

	order, ok := sortClauses[q.Sort]
	if !ok {
		order = sortClauses["prix_asc"]
	}

	query, args, err := builder.
		GroupBy("p.nom_produit", "p.marque", "p.id_categorie", "c.nom_categorie").
		OrderBy(order).
		Limit(200).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build price query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var result []domain.PriceRow
	for rows.Next() {
		var (
			row   domain.PriceRow
			price sql.NullFloat64
		)
		if err := rows.Scan(&row.ProductName, &row.Brand, &row.CategoryID, &row.Category, &price); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		if price.Valid {
			v := price.Float64
			row.Price = &v
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
