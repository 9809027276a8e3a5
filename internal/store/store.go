package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	"github.com/simonvc/lbcoa/internal/ledger"
	_ "modernc.org/sqlite"
)

type AccountFilter struct {
	Company       string
	AccountNumber string
	AccountName   string
	AccountType   ledger.AccountType
	RootType      ledger.RootType
	ParentID      *string
	IsGroup       *bool
	Limit         int
	Offset        int
}

type CostCenterFilter struct {
	Company        string
	ID             string
	CostCenterName string
	IsGroup        *bool
}

type WarehouseFilter struct {
	Company       string
	WarehouseName string
	IsGroup       *bool
}

type Store struct {
	writer *sql.DB
	reader *sql.DB
}

func Open(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &Store{writer: writer, reader: reader}

	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Sync checkpoints the write-ahead log so committed writes are visible to every
// reader connection. Inside a transaction it is a no-op: the transaction already
// reads its own writes.
func (s *Store) Sync(ctx context.Context) error {
	if txFrom(ctx) != nil {
		return nil
	}
	if _, err := s.writer.ExecContext(ctx, `PRAGMA wal_checkpoint(PASSIVE)`); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
