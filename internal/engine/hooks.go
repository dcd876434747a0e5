package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/wayfarerhq/wayfarer/internal/journey"
)

// runHooks schedules every hook concurrently and waits for all to settle.
// Hooks within one phase have no ordering relationship. The first failure
// (or recovered panic) is returned after every hook has finished.
func runHooks(ctx context.Context, hooks []journey.Hook) error {
	if len(hooks) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		wg.Add(1)
		go func(hook journey.Hook) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					once.Do(func() { firstErr = fmt.Errorf("hook panicked: %v", rec) })
				}
			}()
			if err := hook(ctx); err != nil {
				once.Do(func() { firstErr = err })
			}
		}(hook)
	}

	wg.Wait()
	return firstErr
}
