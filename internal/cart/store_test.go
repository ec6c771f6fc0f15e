package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

var line = domain.CartLine{
	ProductID:     "p1",
	Name:          "Wrap Dress",
	Price:         90,
	Quantity:      2,
	SelectedColor: "Red",
	SelectedSize:  "S",
}

func TestRedisStoreSetAndGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Hour)
	ctx := context.Background()

	payload, err := json.Marshal([]domain.CartLine{line})
	require.NoError(t, err)

	mock.ExpectSet("cartItems:s1", string(payload), time.Hour).SetVal("OK")
	mock.ExpectGet("cartItems:s1").SetVal(string(payload))

	require.NoError(t, store.Set(ctx, "s1", []domain.CartLine{line}))
	lines, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLine{line}, lines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreMissingCartIsEmpty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Hour)

	mock.ExpectGet("cartItems:new").RedisNil()

	lines, err := store.Get(context.Background(), "new")
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreClearAndErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Hour)
	ctx := context.Background()

	mock.ExpectDel("cartItems:s1").SetVal(1)
	mock.ExpectGet("cartItems:s2").SetErr(errors.New("connection refused"))

	require.NoError(t, store.Clear(ctx, "s1"))
	_, err := store.Get(ctx, "s2")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "s1", []domain.CartLine{line}))
	lines, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 1)

	lines[0].Quantity = 99
	again, _ := store.Get(ctx, "s1")
	assert.Equal(t, 2, again[0].Quantity)

	require.NoError(t, store.Clear(ctx, "s1"))
	again, _ = store.Get(ctx, "s1")
	assert.Empty(t, again)
}
