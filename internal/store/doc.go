// Package store exports parsed datasets into SQLite databases.
//
// A relation maps to one table, each attribute to one column with a
// kind-appropriate affinity, and missing values to NULL. The export
// replaces any previous table of the same name, so re-exporting a
// refreshed dataset is idempotent.
package store
