package sqlite

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Mapping struct {
	Namespace string
	Key       string
	Value     string
}

const getTable = `
select namespace, key, value from mappings
where namespace = ?
`

func (q *Queries) GetTable(ctx context.Context, namespace string) ([]Mapping, error) {
	rows, err := q.db.QueryContext(ctx, getTable, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Mapping
	for rows.Next() {
		var i Mapping
		if err := rows.Scan(&i.Namespace, &i.Key, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

const deleteTable = `
delete from mappings
where namespace = ?
`

func (q *Queries) DeleteTable(ctx context.Context, namespace string) error {
	_, err := q.db.ExecContext(ctx, deleteTable, namespace)
	return err
}

const setEntry = `
insert into mappings (namespace, key, value)
values (?, ?, ?)
on conflict (namespace, key) do update set value = excluded.value
`

type SetEntryParams struct {
	Namespace string
	Key       string
	Value     string
}

func (q *Queries) SetEntry(ctx context.Context, arg SetEntryParams) error {
	_, err := q.db.ExecContext(ctx, setEntry, arg.Namespace, arg.Key, arg.Value)
	return err
}

const dumpTables = `
select sql from sqlite_master
where type = 'table' and sql is not null
order by name
`

func (q *Queries) DumpTables(ctx context.Context) ([]*string, error) {
	return q.dump(ctx, dumpTables)
}

const dumpRest = `
select sql from sqlite_master
where type != 'table' and sql is not null
order by name
`

func (q *Queries) DumpRest(ctx context.Context) ([]*string, error) {
	return q.dump(ctx, dumpRest)
}

func (q *Queries) dump(ctx context.Context, query string) ([]*string, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*string
	for rows.Next() {
		var statement sql.NullString
		if err := rows.Scan(&statement); err != nil {
			return nil, err
		}
		if statement.Valid {
			items = append(items, &statement.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
