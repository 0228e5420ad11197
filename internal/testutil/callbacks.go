package testutil

import (
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
)

// CreateCounter counts gorm create statements per table, acting as a mock
// call counter for inserts issued through the real database handle.
type CreateCounter struct {
	counts map[string]*atomic.Int64
	total  atomic.Int64
}

// Count returns the number of inserts into table.
func (c *CreateCounter) Count(table string) int64 {
	if n, ok := c.counts[table]; ok {
		return n.Load()
	}
	return 0
}

// Total returns the number of inserts across all tables.
func (c *CreateCounter) Total() int64 {
	return c.total.Load()
}

// CountCreates registers a create callback on db that counts inserts into
// the given tables.
func CountCreates(t *testing.T, db *gorm.DB, tables ...string) *CreateCounter {
	t.Helper()

	c := &CreateCounter{counts: make(map[string]*atomic.Int64)}
	for _, table := range tables {
		c.counts[table] = &atomic.Int64{}
	}

	err := db.Callback().Create().Before("gorm:create").Register("testutil:count_creates", func(tx *gorm.DB) {
		c.total.Add(1)
		if n, ok := c.counts[tx.Statement.Table]; ok {
			n.Add(1)
		}
	})
	if err != nil {
		t.Fatalf("failed to register create counter: %v", err)
	}
	return c
}
