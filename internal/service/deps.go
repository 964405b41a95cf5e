package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock supplies timestamps for createdAt, uploadedAt and friends.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// SystemClock returns wall-clock time in UTC.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator produces collision-resistant identifiers.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

// UUIDGenerator returns random UUIDv4 strings.
func UUIDGenerator() IDGenerator { return uuidGenerator{} }

func (uuidGenerator) NewID() string { return uuid.NewString() }

// SizeSource fabricates the display size of an uploaded file. Uploads carry
// metadata only, so the size is simulated.
type SizeSource func() string

// RandomSize returns sizes between 100 KB and 999 KB.
func RandomSize() string {
	return fmt.Sprintf("%d KB", rand.Intn(900)+100)
}

// keyedMutex serialises read-modify-write cycles on a single store key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the lock for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
