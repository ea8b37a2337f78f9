package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[[]string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	shared := atomic.Int32{}
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, dup := g.Do("alpha/1", func() ([]string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return []string{"ok"}, nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if len(v) != 1 || v[0] != "ok" {
				t.Errorf("unexpected value: %v", v)
			}
			if dup {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if got := shared.Load(); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
}

func TestSingleFlight_SequentialCallsRunAgain(t *testing.T) {
	t.Parallel()

	var g SingleFlight[int]
	calls := 0
	for i := 0; i < 3; i++ {
		_, _, _ = g.Do("key", func() (int, error) {
			calls++
			return calls, nil
		})
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}
