package repository

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/alexanderramin/fortune/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestConcurrentAccess_UpdateNoLostIncrement hammers one key with
// read-modify-write increments. A lost update would leave the counter short.
func TestConcurrentAccess_UpdateNoLostIncrement(t *testing.T) {
	database, _ := testutil.NewFileDB(t)
	store := NewSQLiteKVStore(database)
	ctx := context.Background()

	const workers, perWorker = 8, 25

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				err := store.Update(ctx, "counter", func(cur string, ok bool) (string, error) {
					n := 0
					if ok {
						var err error
						if n, err = strconv.Atoi(cur); err != nil {
							return "", err
						}
					}
					return strconv.Itoa(n + 1), nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	v, err := MustGet(ctx, store, "counter")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(workers*perWorker), v)
}

// TestConcurrentAccess_ReadDuringWrite verifies readers never observe an
// error or a torn value while a writer is updating the same key.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database, _ := testutil.NewFileDB(t)
	store := NewSQLiteKVStore(database)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", "0"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 50; i++ {
			if err := store.Set(ctx, "k", strconv.Itoa(i)); err != nil {
				t.Errorf("writer: %v", err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				v, ok, err := store.Get(ctx, "k")
				if err != nil {
					t.Errorf("reader %d: %v", reader, err)
					return
				}
				if !ok {
					t.Errorf("reader %d: key vanished", reader)
					return
				}
				if _, err := strconv.Atoi(v); err != nil {
					t.Errorf("reader %d: torn value %q", reader, v)
					return
				}
			}
		}(r)
	}

	wg.Wait()

	v, err := MustGet(ctx, store, "k")
	require.NoError(t, err)
	assert.Equal(t, "50", v)
}
