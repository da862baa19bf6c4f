package health

import (
	"sync"
	"testing"
)

func TestSetReadyConcurrentWithReads(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	if h.isReady.Load() {
		t.Fatal("handler must start not ready")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.SetReady()
		}()
		go func() {
			defer wg.Done()
			_ = h.isReady.Load()
		}()
	}
	wg.Wait()

	if !h.isReady.Load() {
		t.Fatal("handler must report ready after SetReady")
	}
}
