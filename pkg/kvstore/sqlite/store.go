package sqlite

import (
	"codeberg.org/miketth/kbisw/pkg/kvstore/sqlite/migrations"
	"context"
	"database/sql"
	"fmt"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// KVStore keeps tables as rows of (namespace, key, value). A table is
// replaced inside one transaction, so readers see the old or the new table.
type KVStore struct {
	db      *sql.DB
	querier *Queries
}

func NewKVStore(filename string, log *zap.SugaredLogger) (*KVStore, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &KVStore{
		db:      db,
		querier: New(db),
	}, nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}

func (s *KVStore) LoadTable(namespace string) (map[string]string, error) {
	rows, err := s.querier.GetTable(context.Background(), namespace)
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}

	ret := make(map[string]string, len(rows))
	for _, row := range rows {
		ret[row.Key] = row.Value
	}

	return ret, nil
}

func (s *KVStore) SaveTable(namespace string, table map[string]string) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	q := s.querier.WithTx(tx)
	if err := q.DeleteTable(ctx, namespace); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}

	for key, value := range table {
		if err := q.SetEntry(ctx, SetEntryParams{
			Namespace: namespace,
			Key:       key,
			Value:     value,
		}); err != nil {
			return fmt.Errorf("sqlite insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}

	return nil
}
