package id

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.RWMutex
	node *snowflake.Node
)

// Init sets up the Snowflake node for this process. nodeID must be unique per
// running replica (0-1023), otherwise journal and delivery ids can collide.
// Calling Init again with the same node id is a no-op.
func Init(nodeID int64) error {
	mu.Lock()
	defer mu.Unlock()

	if node != nil {
		return nil
	}

	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("creating snowflake node %d: %w", nodeID, err)
	}
	node = n
	return nil
}

// New returns a time-ordered int64 id. Panics if Init was never called.
func New() int64 {
	mu.RLock()
	defer mu.RUnlock()

	if node == nil {
		panic("id: New called before Init")
	}
	return node.Generate().Int64()
}
