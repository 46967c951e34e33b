package looppool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBarrierReleasesTogether(t *testing.T) {
	const parties = 8
	b := NewBarrier(parties)

	var arrived atomic.Int64
	var wg sync.WaitGroup
	errs := make(chan string, parties)

	wg.Add(parties)
	for i := 0; i < parties; i++ {
		go func() {
			defer wg.Done()
			arrived.Add(1)
			b.Wait()
			if n := arrived.Load(); n != parties {
				errs <- "released before all parties arrived"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestBarrierReuse(t *testing.T) {
	const parties = 4
	const rounds = 200
	b := NewBarrier(parties)

	var sum atomic.Int64
	var wg sync.WaitGroup
	wg.Add(parties)
	for i := 0; i < parties; i++ {
		go func(id int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				sum.Add(int64(id))
				b.Wait()
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("barrier deadlocked during reuse")
	}

	if got := sum.Load(); got != rounds*(0+1+2+3) {
		t.Errorf("expected %d, got %d", rounds*6, got)
	}
}

func TestBarrierSingleParty(t *testing.T) {
	b := NewBarrier(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Wait()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("single-party barrier blocked")
	}
}

func TestBarrierInvalidParties(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero parties")
		}
	}()
	NewBarrier(0)
}

func TestBarrierParties(t *testing.T) {
	if got := NewBarrier(5).Parties(); got != 5 {
		t.Errorf("expected 5 parties, got %d", got)
	}
}
