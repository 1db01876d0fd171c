package digo

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// resolutionState is the chain of binding keys the current goroutine is
// resolving. A key seen twice in one chain is a cycle.
type resolutionState struct {
	chain    map[string]bool
	mu       sync.Mutex
	keyCache []string
}

func newResolutionState() any {
	return &resolutionState{
		chain:    make(map[string]bool, 8),
		keyCache: make([]string, 0, 8),
	}
}

func (c *Container) getResolutionState() *resolutionState {
	id := c.getGoroutineID()

	c.resolutionMu.RLock()
	state, ok := c.resolutionState.Load(id)
	c.resolutionMu.RUnlock()
	if ok {
		return state.(*resolutionState)
	}

	c.resolutionMu.Lock()
	defer c.resolutionMu.Unlock()

	if state, ok := c.resolutionState.Load(id); ok {
		return state.(*resolutionState)
	}

	state = c.statePool.Get()
	c.resolutionState.Store(id, state)
	return state.(*resolutionState)
}

func (c *Container) startResolving(key string) error {
	state := c.getResolutionState()
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.chain[key] {
		return &CircularDependencyError{Type: key}
	}
	state.chain[key] = true
	state.keyCache = append(state.keyCache, key)
	return nil
}

func (c *Container) finishResolving(key string) {
	state := c.getResolutionState()
	state.mu.Lock()
	delete(state.chain, key)
	isEmpty := len(state.chain) == 0
	state.mu.Unlock()

	if !isEmpty {
		return
	}

	// Outermost resolve on this goroutine is done; recycle the state.
	c.resolutionMu.Lock()
	defer c.resolutionMu.Unlock()
	id := c.getGoroutineID()
	if s, ok := c.resolutionState.LoadAndDelete(id); ok {
		rs := s.(*resolutionState)
		for _, k := range rs.keyCache {
			delete(rs.chain, k)
		}
		rs.keyCache = rs.keyCache[:0]
		c.statePool.Put(rs)
	}
}

func (c *Container) getGoroutineID() string {
	id := goid()
	if cached, ok := c.goidCache.Load(id); ok {
		return cached.(string)
	}
	strID := strconv.FormatInt(id, 10)
	c.goidCache.Store(id, strID)
	return strID
}

// goid parses the current goroutine ID out of the runtime stack header.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	idField := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))[0]
	id, _ := strconv.ParseInt(idField, 10, 64)
	return id
}
