package kvstore

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS kv_records (
        k BYTEA PRIMARY KEY,
        v BYTEA NOT NULL
    )`
	getSQL         = `SELECT v FROM kv_records WHERE k = $1`
	putSQL         = `INSERT INTO kv_records (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`
	deleteSQL      = `DELETE FROM kv_records WHERE k = $1`
	scanSQL        = `SELECT k, v FROM kv_records WHERE k >= $1 AND k < $2 ORDER BY k`
	scanOpenEndSQL = `SELECT k, v FROM kv_records WHERE k >= $1 ORDER BY k`
)

// Postgres stores keys in a single BYTEA-keyed table. BYTEA compares
// bytewise, so ORDER BY k matches the ordering of the other engines.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres ensures the backing table exists and returns the engine.
func NewPostgres(db *sqlx.DB) (*Postgres, error) {
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, errors.Wrap(err, "create kv_records table")
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(key []byte) ([]byte, error) {
	var v []byte
	if err := p.db.QueryRowx(getSQL, key).Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.WithStack(err)
	}
	return v, nil
}

func (p *Postgres) Put(key, value []byte) error {
	_, err := p.db.Exec(putSQL, key, value)
	return errors.WithStack(err)
}

func (p *Postgres) Delete(key []byte) error {
	_, err := p.db.Exec(deleteSQL, key)
	return errors.WithStack(err)
}

// Scan reads the full prefix range before invoking fn so no connection is
// held while callbacks run.
func (p *Postgres) Scan(prefix []byte, fn func(key, value []byte) error) error {
	rng := util.BytesPrefix(prefix)

	var (
		rows *sqlx.Rows
		err  error
	)
	if rng.Limit == nil {
		rows, err = p.db.Queryx(scanOpenEndSQL, rng.Start)
	} else {
		rows, err = p.db.Queryx(scanSQL, rng.Start, rng.Limit)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	type pair struct{ k, v []byte }
	var pairs []pair
	for rows.Next() {
		var kv pair
		if err := rows.Scan(&kv.k, &kv.v); err != nil {
			_ = rows.Close()
			return errors.WithStack(err)
		}
		pairs = append(pairs, kv)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return errors.WithStack(err)
	}
	if err := rows.Close(); err != nil {
		return errors.WithStack(err)
	}

	for _, kv := range pairs {
		if err := fn(kv.k, kv.v); err != nil {
			return finishScan(err)
		}
	}
	return nil
}

func (p *Postgres) Close() error {
	return errors.WithStack(p.db.Close())
}
