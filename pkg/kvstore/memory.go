package kvstore

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

const memoryDegree = 16

type memItem struct {
	key   []byte
	value []byte
}

func (i memItem) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(memItem).key) < 0
}

// Memory is a non-durable engine holding keys in an in-memory B-tree.
type Memory struct {
	mu   sync.RWMutex
	tree *btree.BTree
}

// NewMemory returns an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{tree: btree.New(memoryDegree)}
}

func (m *Memory) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item := m.tree.Get(memItem{key: key})
	if item == nil {
		return nil, ErrNotFound
	}
	return copyBytes(item.(memItem).value), nil
}

func (m *Memory) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tree.ReplaceOrInsert(memItem{key: copyBytes(key), value: copyBytes(value)})
	return nil
}

func (m *Memory) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tree.Delete(memItem{key: key})
	return nil
}

// Scan snapshots matching items before invoking fn so callbacks may write.
func (m *Memory) Scan(prefix []byte, fn func(key, value []byte) error) error {
	var items []memItem
	m.mu.RLock()
	m.tree.AscendGreaterOrEqual(memItem{key: prefix}, func(i btree.Item) bool {
		it := i.(memItem)
		if !bytes.HasPrefix(it.key, prefix) {
			return false
		}
		items = append(items, it)
		return true
	})
	m.mu.RUnlock()

	for _, it := range items {
		if err := fn(copyBytes(it.key), copyBytes(it.value)); err != nil {
			return finishScan(err)
		}
	}
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}

func (m *Memory) Close() error { return nil }
