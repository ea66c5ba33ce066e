package repository

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

func newRoomFactory(t *testing.T, key string, created *atomic.Int32) func() *entity.Room {
	t.Helper()

	rules, err := entity.NewRules(3, 2, nil, 0)
	require.NoError(t, err)

	return func() *entity.Room {
		created.Add(1)
		return entity.NewRoom(key, rules)
	}
}

func TestRoomRepository_GetOrCreate(t *testing.T) {
	t.Run("Creates once and returns the same room", func(t *testing.T) {
		repo := NewRoomRepository()
		var created atomic.Int32
		factory := newRoomFactory(t, "room-1", &created)

		// When: asking for the same key twice
		first, isNew := repo.GetOrCreate("room-1", factory)
		require.True(t, isNew)
		second, isNew := repo.GetOrCreate("room-1", factory)

		// Then: the second call returns the stored room
		assert.False(t, isNew)
		assert.Same(t, first, second)
		assert.Equal(t, int32(1), created.Load())
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("Concurrent first joins produce exactly one room", func(t *testing.T) {
		repo := NewRoomRepository()
		var created atomic.Int32
		factory := newRoomFactory(t, "room-1", &created)

		const joiners = 64
		rooms := make([]*entity.Room, joiners)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < joiners; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				rooms[i], _ = repo.GetOrCreate("room-1", factory)
			}(i)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
		for _, room := range rooms {
			assert.Same(t, rooms[0], room)
		}
	})
}

func TestRoomRepository_Remove(t *testing.T) {
	t.Run("Removes the stored room", func(t *testing.T) {
		repo := NewRoomRepository()
		var created atomic.Int32
		room, _ := repo.GetOrCreate("room-1", newRoomFactory(t, "room-1", &created))

		assert.True(t, repo.Remove("room-1", room))

		_, ok := repo.Get("room-1")
		assert.False(t, ok)
		assert.Equal(t, 0, repo.Len())
	})

	t.Run("Stale room does not remove its successor", func(t *testing.T) {
		// Given: a room that was replaced under the same key
		repo := NewRoomRepository()
		var created atomic.Int32
		factory := newRoomFactory(t, "room-1", &created)
		stale, _ := repo.GetOrCreate("room-1", factory)
		require.True(t, repo.Remove("room-1", stale))
		fresh, _ := repo.GetOrCreate("room-1", factory)

		// When: removing with the stale handle
		removed := repo.Remove("room-1", stale)

		// Then: the fresh room stays
		assert.False(t, removed)
		current, ok := repo.Get("room-1")
		require.True(t, ok)
		assert.Same(t, fresh, current)
	})
}
