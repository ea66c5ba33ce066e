package repository

import (
	"sync"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

// RoomRepository - in-memory registry of live rooms keyed by room key.
type RoomRepository interface {
	GetOrCreate(key string, create func() *entity.Room) (*entity.Room, bool)
	Get(key string) (*entity.Room, bool)
	Remove(key string, room *entity.Room) bool
	Len() int
}

type memoryRooms struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomRepository() RoomRepository {
	return &memoryRooms{
		rooms: make(map[string]*entity.Room),
	}
}

// GetOrCreate - returns the room stored under key, inserting create() when absent.
// The second value reports whether the room was created by this call.
func (that *memoryRooms) GetOrCreate(key string, create func() *entity.Room) (*entity.Room, bool) {
	that.mu.RLock()
	room, ok := that.rooms[key]
	that.mu.RUnlock()

	if ok {
		return room, false
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok = that.rooms[key]; ok {
		return room, false
	}

	room = create()
	that.rooms[key] = room

	return room, true
}

func (that *memoryRooms) Get(key string) (*entity.Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[key]

	return room, ok
}

// Remove - deletes the key only while it still points at room,
// so a late caller never drops a newer room reusing the key.
func (that *memoryRooms) Remove(key string, room *entity.Room) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.rooms[key]; ok && current == room {
		delete(that.rooms, key)
		return true
	}

	return false
}

func (that *memoryRooms) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
