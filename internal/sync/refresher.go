package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// fetchTimeout is the maximum time allowed for a single refresh.
const fetchTimeout = 30 * time.Second

// RefreshMsg is a tea.Msg sent when a background notification refresh
// completes.
type RefreshMsg struct {
	UnreadCount int
	Err         error
}

// Refresher polls the backend for notifications in the background and
// feeds the results to the Bubble Tea runtime as messages.
type Refresher struct {
	service  *NotificationService
	interval time.Duration

	resultCh  chan RefreshMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	running bool
}

// NewRefresher creates a refresher polling at the given interval.
// Non-positive intervals fall back to one minute.
func NewRefresher(service *NotificationService, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Refresher{
		service:   service,
		interval:  interval,
		resultCh:  make(chan RefreshMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns the subscription
// command that delivers the first result. Starting twice is a no-op;
// starting after Stop begins a fresh polling cycle.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stop := r.stopCh
	r.mu.Unlock()

	go r.loop(stop)

	return r.waitForResult()
}

// Stop halts the polling goroutine.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// RefreshNow triggers an immediate refresh. Safe to call from Update.
func (r *Refresher) RefreshNow() tea.Cmd {
	select {
	case r.triggerCh <- struct{}{}:
	default:
		// A refresh is already queued.
	}
	return nil
}

// WaitForNextResult returns the subscription command to run after
// processing a RefreshMsg, keeping the stream alive.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}

func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

func (r *Refresher) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.refresh()
		case <-r.triggerCh:
			r.refresh()
		}
	}
}

// refresh performs one poll. Polling only makes sense with an
// established session; anonymous ticks are skipped silently.
func (r *Refresher) refresh() {
	if !r.service.session.IsAuthenticated() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if err := r.service.Load(ctx); err != nil {
		r.sendResult(RefreshMsg{Err: err})
		return
	}

	count, err := r.service.UnreadCount(ctx)
	if err != nil {
		r.sendResult(RefreshMsg{Err: err})
		return
	}

	r.sendResult(RefreshMsg{UnreadCount: count})
}

// sendResult sends without blocking; a full channel drops the result,
// the next tick will supersede it anyway.
func (r *Refresher) sendResult(msg RefreshMsg) {
	select {
	case r.resultCh <- msg:
	default:
	}
}
