package db

// DB is a generic database port that allows swapping the embedded
// SQLite store for sqlc, pgx, bun, ent or even an in-memory DB.
type DB interface {
	Conn() any
}
