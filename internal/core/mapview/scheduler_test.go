package mapview_test

import (
	"testing"
	"time"

	"github.com/samirrijal/placemap/internal/core/mapview"
)

func TestTickerScheduler_RunsRequestedFrame(t *testing.T) {
	s := mapview.NewTickerScheduler(5 * time.Millisecond)
	defer s.Close()

	done := make(chan time.Time, 1)
	s.RequestFrame(func(now time.Time) { done <- now })

	select {
	case now := <-done:
		if now.IsZero() {
			t.Error("expected a tick timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("frame callback never ran")
	}
}

func TestTickerScheduler_ChainedFramesRunOnLaterTicks(t *testing.T) {
	s := mapview.NewTickerScheduler(2 * time.Millisecond)
	defer s.Close()

	done := make(chan [2]time.Time, 1)
	s.RequestFrame(func(first time.Time) {
		s.RequestFrame(func(second time.Time) {
			done <- [2]time.Time{first, second}
		})
	})

	select {
	case ticks := <-done:
		if !ticks[1].After(ticks[0]) {
			t.Errorf("expected chained frame on a later tick, got %v then %v", ticks[0], ticks[1])
		}
	case <-time.After(time.Second):
		t.Fatal("chained frame never ran")
	}
}
