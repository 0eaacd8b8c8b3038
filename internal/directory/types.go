// SPDX-License-Identifier: MIT

// Package directory holds the city organizations reference book.
package directory

import "errors"

// ErrNotFound is returned when a category or organization does not exist.
var ErrNotFound = errors.New("directory: not found")

// Category groups organizations, e.g. pharmacies or taxi services.
type Category struct {
	ID   int64
	Name string
}

// Organization is one directory entry.
type Organization struct {
	ID         int64
	CategoryID int64
	Name       string
	Address    string
	Phone      string // empty when unknown
}
