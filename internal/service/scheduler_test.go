package service

import (
	"testing"
	"time"

	"fridgehero-server/internal/domain"
)

func TestRefreshScheduler_TickRefreshesStores(t *testing.T) {
	subs := &fakeSubscriptionRepo{statuses: []domain.SubscriptionStatus{premiumStatus()}}
	registry := newTestRegistry(subs)
	registry.GetOrCreate("user-1")

	clock := newFakeClock()
	scheduler := NewRefreshScheduler(registry, 30*time.Minute, clock, NewMockLogger())
	scheduler.Start()
	defer scheduler.Stop()

	ticker := <-clock.tickerCh
	ticker.Tick()

	waitFor(t, func() bool { return subs.callCount() == 2 })
}

func TestRefreshScheduler_StopIsIdempotent(t *testing.T) {
	subs := &fakeSubscriptionRepo{statuses: []domain.SubscriptionStatus{premiumStatus()}}
	registry := newTestRegistry(subs)

	clock := newFakeClock()
	scheduler := NewRefreshScheduler(registry, 30*time.Minute, clock, NewMockLogger())
	scheduler.Start()

	scheduler.Stop()
	scheduler.Stop()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}
