// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vpolyany/polyansky-bot/internal/directory"
)

// OrgRepository persists the city organizations directory.
type OrgRepository struct {
	db *sql.DB
}

// NewOrgRepository constructs the repository.
func NewOrgRepository(db *sql.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// Categories lists all categories ordered by name.
func (r *OrgRepository) Categories(ctx context.Context) ([]directory.Category, error) {
	const query = `SELECT id, name FROM org_categories ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var result []directory.Category
	for rows.Next() {
		var c directory.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return result, nil
}

// CategoryByID fetches one category.
func (r *OrgRepository) CategoryByID(ctx context.Context, id int64) (directory.Category, error) {
	const query = `SELECT id, name FROM org_categories WHERE id = ?`

	var c directory.Category
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directory.Category{}, directory.ErrNotFound
		}
		return directory.Category{}, fmt.Errorf("category by id: %w", err)
	}
	return c, nil
}

// CategoryByName fetches one category by its exact name.
func (r *OrgRepository) CategoryByName(ctx context.Context, name string) (directory.Category, error) {
	const query = `SELECT id, name FROM org_categories WHERE name = ?`

	var c directory.Category
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directory.Category{}, directory.ErrNotFound
		}
		return directory.Category{}, fmt.Errorf("category by name: %w", err)
	}
	return c, nil
}

// CreateCategory adds a category, rejecting duplicates by unique name.
func (r *OrgRepository) CreateCategory(ctx context.Context, name string) (directory.Category, error) {
	const query = `INSERT INTO org_categories (name) VALUES (?)`

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return directory.Category{}, fmt.Errorf("create category %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return directory.Category{}, fmt.Errorf("create category %q: %w", name, err)
	}
	return directory.Category{ID: id, Name: name}, nil
}

// OrgsByCategory returns one page of a category's organizations, ordered by
// name.
func (r *OrgRepository) OrgsByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]directory.Organization, error) {
	const query = `
        SELECT id, category_id, name, address, phone
          FROM organizations
         WHERE category_id = ?
         ORDER BY name
         LIMIT ? OFFSET ?
    `

	rows, err := r.db.QueryContext(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var result []directory.Organization
	for rows.Next() {
		var o directory.Organization
		if err := rows.Scan(&o.ID, &o.CategoryID, &o.Name, &o.Address, &o.Phone); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read organizations: %w", err)
	}
	return result, nil
}

// CountByCategory returns how many organizations a category holds.
func (r *OrgRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM organizations WHERE category_id = ?`

	var n int
	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return n, nil
}

// OrgByID fetches one organization.
func (r *OrgRepository) OrgByID(ctx context.Context, id int64) (directory.Organization, error) {
	const query = `
        SELECT id, category_id, name, address, phone
          FROM organizations
         WHERE id = ?
    `

	var o directory.Organization
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.CategoryID, &o.Name, &o.Address, &o.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directory.Organization{}, directory.ErrNotFound
		}
		return directory.Organization{}, fmt.Errorf("organization by id: %w", err)
	}
	return o, nil
}

// CreateOrg adds an organization to a category.
func (r *OrgRepository) CreateOrg(ctx context.Context, o directory.Organization) (directory.Organization, error) {
	const query = `
        INSERT INTO organizations (category_id, name, address, phone)
        VALUES (?, ?, ?, ?)
    `

	res, err := r.db.ExecContext(ctx, query, o.CategoryID, o.Name, o.Address, o.Phone)
	if err != nil {
		return directory.Organization{}, fmt.Errorf("create organization %q: %w", o.Name, err)
	}
	o.ID, err = res.LastInsertId()
	if err != nil {
		return directory.Organization{}, fmt.Errorf("create organization %q: %w", o.Name, err)
	}
	return o, nil
}
