package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkbookFile(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, rows), 0644))
	return path
}

func TestStoreLazyLoadsDefaultFile(t *testing.T) {
	path := writeWorkbookFile(t, [][]interface{}{
		{"final_location", "year", "rate"},
		{"wakad", 2020, "1200"},
	})

	store := NewStore(NewLoader(nil), path, nil)
	assert.False(t, store.Loaded())

	ds := store.Get()
	require.NotNil(t, ds)
	assert.Len(t, ds.Rows, 1)
	assert.True(t, store.Loaded())

	// Second Get returns the same cached table.
	assert.Same(t, ds, store.Get())
}

func TestStoreMissingDefaultFile(t *testing.T) {
	store := NewStore(NewLoader(nil), filepath.Join(t.TempDir(), "absent.xlsx"), nil)

	assert.Nil(t, store.Get())
	// The failed load is memoized, not retried on every Get.
	assert.Nil(t, store.Get())
	assert.False(t, store.Loaded())
}

func TestStoreEmptyPath(t *testing.T) {
	store := NewStore(NewLoader(nil), "", nil)
	assert.Nil(t, store.Get())
}

func TestStoreReplaceWinsOverDefault(t *testing.T) {
	path := writeWorkbookFile(t, [][]interface{}{
		{"final_location", "year", "rate"},
		{"wakad", 2020, "1200"},
	})

	store := NewStore(NewLoader(nil), path, nil)

	uploaded := &Dataset{Columns: []string{"final_location"}, Rows: []Row{{Location: "baner"}}}
	store.Replace(uploaded)

	assert.Same(t, uploaded, store.Get())
	assert.True(t, store.Loaded())
}

func TestStoreInvalidateReArmsDefaultLoad(t *testing.T) {
	path := writeWorkbookFile(t, [][]interface{}{
		{"final_location", "year", "rate"},
		{"wakad", 2020, "1200"},
	})

	store := NewStore(NewLoader(nil), path, nil)
	store.Replace(&Dataset{})
	store.Invalidate()

	assert.False(t, store.Loaded())
	ds := store.Get()
	require.NotNil(t, ds)
	assert.Len(t, ds.Rows, 1)
}
