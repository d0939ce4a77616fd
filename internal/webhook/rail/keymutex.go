package rail

import (
	"hash/fnv"
	"sync"
)

// keyMutex provides advisory serialization by entity key: two envelopes for
// the same authentication code cannot interleave between "read last event"
// and "append new entry" within this process. Striping means unrelated codes
// may occasionally share a lock, which only costs latency. Cross-process
// interleavings remain possible and are rejected, not corrupted, by the
// transition table.
type keyMutex struct {
	shards [64]sync.Mutex
}

var entityLocks keyMutex

// Lock locks the shard for key and returns the unlock function.
func (k *keyMutex) Lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	m := &k.shards[h.Sum32()%uint32(len(k.shards))]
	m.Lock()
	return m.Unlock
}
