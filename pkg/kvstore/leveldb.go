package kvstore

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is an engine backed by an on-disk leveldb database. Writes are
// synced before returning.
type LevelDB struct {
	db   *leveldb.DB
	sync *opt.WriteOptions
}

// OpenLevelDB opens (creating if needed) the database at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb at %s", path)
	}
	return &LevelDB{db: db, sync: &opt.WriteOptions{Sync: true}}, nil
}

// Get returns the value stored under key.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return v, nil
}

// Put stores a key-value pair.
func (l *LevelDB) Put(key, value []byte) error {
	return errors.WithStack(l.db.Put(key, value, l.sync))
}

// Delete removes a key-value pair.
func (l *LevelDB) Delete(key []byte) error {
	return errors.WithStack(l.db.Delete(key, l.sync))
}

// Scan walks every key under prefix in ascending order.
func (l *LevelDB) Scan(prefix []byte, fn func(key, value []byte) error) error {
	iter := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		// iterator buffers are reused between steps
		if err := fn(copyBytes(iter.Key()), copyBytes(iter.Value())); err != nil {
			return finishScan(err)
		}
	}
	return errors.WithStack(iter.Error())
}

// Close releases the database files.
func (l *LevelDB) Close() error {
	return errors.WithStack(l.db.Close())
}
