package common

import (
	"errors"
	"sync"
)

// RunParallel runs every task in its own goroutine and waits for all of
// them. It returns the joined errors, in task order, and how many tasks
// failed.
func RunParallel(tasks ...func() error) (error, int) {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		i, task := i, task
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = task()
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	return errors.Join(errs...), failed
}
