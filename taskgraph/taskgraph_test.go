package taskgraph

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskDependencies(t *testing.T) {
	var order []int
	tc := &Collection{}
	r := tc.AddRegion(1)
	tl := r.Lists[0]
	a := tl.AddTask(None, func() (Status, error) {
		order = append(order, 1)
		return Complete, nil
	})
	b := tl.AddTask(a, func() (Status, error) {
		order = append(order, 2)
		return Complete, nil
	})
	tl.AddTask(a|b, func() (Status, error) {
		order = append(order, 3)
		return Complete, nil
	})
	assert.NoError(t, tc.Execute())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestIncompleteIsRepolled(t *testing.T) {
	polls := 0
	tc := &Collection{}
	r := tc.AddRegion(1)
	r.Lists[0].AddTask(None, func() (Status, error) {
		polls++
		if polls < 3 {
			return Incomplete, nil
		}
		return Complete, nil
	})
	assert.NoError(t, tc.Execute())
	assert.Equal(t, 3, polls)
}

func TestRegionsAreBarriers(t *testing.T) {
	var counter int64
	tc := &Collection{}
	r1 := tc.AddRegion(4)
	for _, tl := range r1.Lists {
		tl.AddTask(None, func() (Status, error) {
			atomic.AddInt64(&counter, 1)
			return Complete, nil
		})
	}
	r2 := tc.AddRegion(1)
	r2.Lists[0].AddTask(None, func() (Status, error) {
		// Every task of the previous region must have completed by now.
		if atomic.LoadInt64(&counter) != 4 {
			return Fail, fmt.Errorf("region barrier violated: counter=%d", counter)
		}
		return Complete, nil
	})
	assert.NoError(t, tc.Execute())
}

func TestErrorAbortsCollection(t *testing.T) {
	ran := false
	tc := &Collection{}
	r1 := tc.AddRegion(1)
	r1.Lists[0].AddTask(None, func() (Status, error) {
		return Fail, fmt.Errorf("boom")
	})
	r2 := tc.AddRegion(1)
	r2.Lists[0].AddTask(None, func() (Status, error) {
		ran = true
		return Complete, nil
	})
	err := tc.Execute()
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestFailureReleasesPollingLists(t *testing.T) {
	// List 1 polls for a flag that list 0 would have set after its failing
	// task. The failure must release the region barrier, not leave list 1
	// re-polling forever.
	var flag int64
	tc := &Collection{}
	r := tc.AddRegion(2)
	r.Lists[0].AddTask(None, func() (Status, error) {
		return Fail, fmt.Errorf("send failed")
	})
	r.Lists[1].AddTask(None, func() (Status, error) {
		if atomic.LoadInt64(&flag) == 0 {
			return Incomplete, nil
		}
		return Complete, nil
	})

	done := make(chan error, 1)
	go func() { done <- tc.Execute() }()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("a failing list left the region barrier waiting")
	}
}

func TestCrossListPolling(t *testing.T) {
	// A task polling for a flag set by another list in the same region must
	// not starve it.
	var flag int64
	tc := &Collection{}
	r := tc.AddRegion(2)
	r.Lists[0].AddTask(None, func() (Status, error) {
		if atomic.LoadInt64(&flag) == 0 {
			return Incomplete, nil
		}
		return Complete, nil
	})
	r.Lists[1].AddTask(None, func() (Status, error) {
		atomic.StoreInt64(&flag, 1)
		return Complete, nil
	})
	assert.NoError(t, tc.Execute())
}
