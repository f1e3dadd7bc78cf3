package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func recv[T any](t *testing.T, c <-chan T, within time.Duration) T {
	t.Helper()
	select {
	case v, ok := <-c:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(within):
		t.Fatalf("no value within %s", within)
	}
	var zero T
	return zero
}

func assertQuiet[T any](t *testing.T, c <-chan T, d time.Duration) {
	t.Helper()
	select {
	case v := <-c:
		t.Fatalf("unexpected value %v", v)
	case <-time.After(d):
	}
}

func TestBurstDeliversLastOnly(t *testing.T) {
	d := New[string](40 * time.Millisecond)
	defer d.Stop()

	for _, v := range []string{"r", "re", "rea", "reac", "react"} {
		d.Push(v)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, "react", recv(t, d.C(), time.Second))
	assertQuiet(t, d.C(), 120*time.Millisecond)
	assert.False(t, d.Pending())
}

func TestSpacedPushesEachDeliver(t *testing.T) {
	d := New[int](10 * time.Millisecond)
	defer d.Stop()

	d.Push(1)
	assert.Equal(t, 1, recv(t, d.C(), time.Second))
	d.Push(2)
	assert.Equal(t, 2, recv(t, d.C(), time.Second))
}

func TestQuietPeriodRestartsOnPush(t *testing.T) {
	d := New[string](60 * time.Millisecond)
	defer d.Stop()

	start := time.Now()
	d.Push("a")
	time.Sleep(40 * time.Millisecond)
	d.Push("ab")

	assert.Equal(t, "ab", recv(t, d.C(), time.Second))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestFlush(t *testing.T) {
	d := New[string](time.Hour)
	defer d.Stop()

	d.Flush()
	d.Push("now")
	assert.True(t, d.Pending())
	d.Flush()

	assert.Equal(t, "now", recv(t, d.C(), 50*time.Millisecond))
	assert.False(t, d.Pending())
}

func TestUnreadValueIsReplaced(t *testing.T) {
	d := New[string](time.Hour)
	defer d.Stop()

	d.Push("old")
	d.Flush()
	d.Push("new")
	d.Flush()

	assert.Equal(t, "new", recv(t, d.C(), 50*time.Millisecond))
	assertQuiet(t, d.C(), 20*time.Millisecond)
}

func TestStop(t *testing.T) {
	d := New[string](10 * time.Millisecond)
	d.Push("dropped")
	d.Stop()
	d.Stop()
	d.Push("ignored")

	_, ok := <-d.C()
	assert.False(t, ok)
}

// One fetch per burst: the consumer only sees the settled value.
func TestSingleFetchPerBurst(t *testing.T) {
	d := New[string](30 * time.Millisecond)

	var (
		mu      sync.Mutex
		fetched []string
		wg      sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for q := range d.C() {
			mu.Lock()
			fetched = append(fetched, q)
			mu.Unlock()
		}
	}()

	for _, v := range []string{"l", "le", "lea", "lear", "learn"} {
		d.Push(v)
	}
	time.Sleep(150 * time.Millisecond)
	d.Stop()
	wg.Wait()

	assert.Equal(t, []string{"learn"}, fetched)
}
