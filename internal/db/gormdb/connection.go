package gormdb

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Thebys/b48-display-controller/internal/db"
)

type GormDB struct {
	conn *gorm.DB
}

// New opens the SQLite database at path. WAL mode keeps the display loop's
// reads from blocking behind API writes; the busy timeout covers the rest.
func New(path string) (*GormDB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}
	return &GormDB{conn: conn}, nil
}

func (g *GormDB) Conn() any {
	return g.conn
}

// verify it satisfies db.DB
var _ db.DB = (*GormDB)(nil)
