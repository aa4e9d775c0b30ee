package registry

import (
	"errors"
	"sync"
	"testing"

	"inventory_commerce/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("sales_orders", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("sales_orders", 2)
	require.NoError(t, err)
	assert.False(t, isNew, "đăng ký lại phải ghi đè")

	v, ok := r.Get("sales_orders")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.True(t, errors.Is(err, common.ErrRequiredField))
}

func TestRegistry_GetOrCreateConcurrent(t *testing.T) {
	r := NewRegistry[*int]()
	calls := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetOrCreate("products", func() (*int, error) {
				calls++
				n := 7
				return &n, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls, "creator chỉ được gọi một lần")

	_, err := r.GetOrCreate("bad", func() (*int, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	_, ok := r.Get("bad")
	assert.False(t, ok)
}

func TestRegistry_NamesAndClearAll(t *testing.T) {
	r := NewRegistry[string]()
	_, _ = r.Register("warehouses", "w")
	_, _ = r.Register("brands", "b")
	assert.Equal(t, []string{"brands", "warehouses"}, r.Names())

	cleaned := 0
	count, err := r.ClearAll(func(string) error { cleaned++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, cleaned)
	assert.Empty(t, r.Names())
}
