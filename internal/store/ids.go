package store

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator returns a fresh identifier on every call.
type IDGenerator func() string

// UUIDs generates random (v4) UUID strings.
func UUIDs() IDGenerator { return uuid.NewString }

// Sequence generates "<prefix>1", "<prefix>2", ... and is safe for concurrent use.
func Sequence(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string { return prefix + strconv.FormatInt(n.Add(1), 10) }
}
