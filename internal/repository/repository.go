// Package repository wraps all SQL access behind typed queries.
// Row structs are mapped by column name, so their fields must track
// the migrations under migrations/.
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) Queries {
	return Queries{db: db}
}
