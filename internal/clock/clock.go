// Package clock は現在時刻と遅延実行を差し替え可能にします。
// 本番は Real、テストは Fake を使い、Advance で待ち時間なしにタイマーを発火させます
package clock

import (
	"slices"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// Timer は AfterFunc で予約した処理です。Stop は発火前に止められたら true
type Timer interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real は time パッケージそのままです
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Fake は手動で進める時計です
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	fake    *Fake
	when    time.Time
	seq     int
	f       func()
	stopped bool
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{fake: c, when: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance は時計を d 進め、期限が来たタイマーを時刻順に実行します。
// コールバックはロックの外で呼ぶので、その中で AfterFunc を呼んでもよい
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.popDueLocked(target)
		if next == nil {
			break
		}
		c.now = next.when
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Pending はまだ発火していないタイマーの数です
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *Fake) popDueLocked(target time.Time) *fakeTimer {
	idx := -1
	for i, t := range c.timers {
		if t.when.After(target) {
			continue
		}
		if idx < 0 || t.when.Before(c.timers[idx].when) ||
			(t.when.Equal(c.timers[idx].when) && t.seq < c.timers[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := c.timers[idx]
	c.timers = slices.Delete(c.timers, idx, idx+1)
	return t
}

func (t *fakeTimer) Stop() bool {
	c := t.fake
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, pending := range c.timers {
		if pending == t {
			c.timers = slices.Delete(c.timers, i, i+1)
			return true
		}
	}
	return false
}
