package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pet-nutrition-platform/internal/client/notify"
	"pet-nutrition-platform/internal/platform/httpclient"
)

func TestPollerNotifiesOnlyOnChange(t *testing.T) {
	var total atomic.Int64
	var failing atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"total": int(total.Load())})
	}))
	defer ts.Close()

	api, err := httpclient.New(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	changes := make(chan int, 16)
	p := notify.NewPoller(api, "c-1", 20*time.Millisecond, func(n int) {
		changes <- n
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	// El primer fetch sale inmediato y reporta el valor inicial.
	waitChange(t, changes, 0)
	if p.Unread() != 0 {
		t.Fatalf("expected unread 0, got %d", p.Unread())
	}

	// Mientras el total no cambie, el callback no se repite.
	select {
	case n := <-changes:
		t.Fatalf("unexpected change callback with %d", n)
	case <-time.After(80 * time.Millisecond):
	}

	total.Store(3)
	waitChange(t, changes, 3)
	if p.Unread() != 3 {
		t.Fatalf("expected unread 3, got %d", p.Unread())
	}

	// En error de red el badge conserva el último valor conocido.
	failing.Store(true)
	time.Sleep(80 * time.Millisecond)
	if p.Unread() != 3 {
		t.Fatalf("expected last known value kept on error, got %d", p.Unread())
	}

	failing.Store(false)
	total.Store(1)
	waitChange(t, changes, 1)
}

func TestPollerStartIdempotent(t *testing.T) {
	var requests atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"total": 0})
	}))
	defer ts.Close()

	api, err := httpclient.New(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	p := notify.NewPoller(api, "c-1", time.Hour, nil)
	ctx := context.Background()
	p.Start(ctx)
	p.Start(ctx) // segundo Start no lanza otro loop

	deadline := time.Now().Add(time.Second)
	for requests.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected a single immediate poll, got %d", got)
	}

	p.Stop()
	p.Stop() // Stop repetido tampoco falla
}

func waitChange(t *testing.T, ch <-chan int, want int) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("expected change to %d, got %d", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change to %d", want)
	}
}
