package taskgraph

import (
	"fmt"
	"runtime"
	"sync"
)

/*
	A TaskCollection describes one integrator stage as a sequence of regions.
	Regions execute in order, forming implicit barriers: every task of region N
	completes before region N+1 starts. Within a region, each TaskList runs on
	its own goroutine with no ordering guarantee between lists.

	Tasks inside a list declare dependencies on earlier tasks of the same list
	via the ID bitmask. A task returning Incomplete (e.g. a boundary receive
	waiting on a neighbor's send) is re-polled until it completes.
*/

type Status uint8

const (
	Complete Status = iota
	Incomplete
	Fail
)

// Func is a single unit of work. Returning Fail or a non-nil error aborts
// the whole collection; there is no mid-step cancellation or retry.
type Func func() (Status, error)

type ID uint64

// None is the empty dependency set.
const None ID = 0

type task struct {
	id   ID
	deps ID
	fn   Func
}

type TaskList struct {
	tasks []task
}

// AddTask appends fn, which will not run before all tasks in deps have
// completed. Lists are limited to 64 tasks by the ID bitmask.
func (tl *TaskList) AddTask(deps ID, fn Func) ID {
	if len(tl.tasks) >= 64 {
		panic(fmt.Errorf("task list overflow: more than 64 tasks in one list"))
	}
	id := ID(1) << uint(len(tl.tasks))
	tl.tasks = append(tl.tasks, task{id: id, deps: deps, fn: fn})
	return id
}

// run executes the list until all tasks complete or abort is closed. A
// closed abort means another list of the region failed; the list drains
// without running further tasks so the region barrier can release.
func (tl *TaskList) run(abort <-chan struct{}) error {
	var done ID
	remaining := len(tl.tasks)
	for remaining > 0 {
		select {
		case <-abort:
			return nil
		default:
		}
		progressed := false
		for i := range tl.tasks {
			t := &tl.tasks[i]
			if done&t.id != 0 {
				continue
			}
			if t.deps&^done != 0 {
				continue
			}
			status, err := t.fn()
			if err != nil {
				return err
			}
			switch status {
			case Complete:
				done |= t.id
				remaining--
				progressed = true
			case Incomplete:
				// re-polled on the next sweep
			case Fail:
				return fmt.Errorf("task %d failed", i)
			}
		}
		if !progressed {
			// All runnable tasks are Incomplete, waiting on another list.
			runtime.Gosched()
		}
	}
	return nil
}

type Region struct {
	Lists []*TaskList
}

type Collection struct {
	Regions []*Region
}

// AddRegion appends a region holding n independent task lists and returns it.
func (tc *Collection) AddRegion(n int) *Region {
	r := &Region{Lists: make([]*TaskList, n)}
	for i := range r.Lists {
		r.Lists[i] = &TaskList{}
	}
	tc.Regions = append(tc.Regions, r)
	return r
}

// Execute runs all regions in order. The first task error aborts execution;
// a failed step leaves the state undefined and the caller must treat it as
// fatal for the run.
func (tc *Collection) Execute() error {
	for _, r := range tc.Regions {
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			once sync.Once
			frst error
		)
		abort := make(chan struct{})
		for _, tl := range r.Lists {
			wg.Add(1)
			go func(tl *TaskList) {
				defer wg.Done()
				if err := tl.run(abort); err != nil {
					mu.Lock()
					if frst == nil {
						frst = err
					}
					mu.Unlock()
					// Release sibling lists that are polling for messages
					// this list will never send.
					once.Do(func() { close(abort) })
				}
			}(tl)
		}
		wg.Wait()
		if frst != nil {
			return frst
		}
	}
	return nil
}
