package engine

import (
	"container/heap"
	"time"

	"github.com/vovakirdan/burrow/internal/catalog"
)

// ActiveEffect is a timed status granted by an equipped tile.
type ActiveEffect struct {
	Kind      catalog.EffectKind
	Amplifier float64
	ExpiresAt time.Time
}

// Remaining returns the time left before expiry, never negative.
func (e ActiveEffect) Remaining(now time.Time) time.Duration {
	if d := e.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// expiry is a scheduled removal. Entries may be stale once the effect is
// reacquired; draining checks them against the live effect.
type expiry struct {
	at   time.Time
	kind catalog.EffectKind
}

// expiryQueue is a min-heap ordered by expiry time.
type expiryQueue []expiry

func (q expiryQueue) Len() int { return len(q) }

func (q expiryQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].kind < q[j].kind
	}
	return q[i].at.Before(q[j].at)
}

func (q expiryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *expiryQueue) Push(x any) { *q = append(*q, x.(expiry)) }

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// effectSet owns the live effects and their expiry schedule.
type effectSet struct {
	live  map[catalog.EffectKind]ActiveEffect
	queue expiryQueue
}

func newEffectSet() *effectSet {
	return &effectSet{live: make(map[catalog.EffectKind]ActiveEffect)}
}

// grant installs or refreshes an effect. The new amplifier replaces the old
// one; the later of the two expiries is kept.
func (s *effectSet) grant(kind catalog.EffectKind, amplifier float64, expiresAt time.Time) ActiveEffect {
	if cur, ok := s.live[kind]; ok && cur.ExpiresAt.After(expiresAt) {
		expiresAt = cur.ExpiresAt
	}
	e := ActiveEffect{Kind: kind, Amplifier: amplifier, ExpiresAt: expiresAt}
	s.live[kind] = e
	heap.Push(&s.queue, expiry{at: expiresAt, kind: kind})
	return e
}

// drain removes every effect whose live expiry is at or before now and
// returns the removed kinds in expiry order.
func (s *effectSet) drain(now time.Time) []catalog.EffectKind {
	var expired []catalog.EffectKind
	for s.queue.Len() > 0 && !s.queue[0].at.After(now) {
		e := heap.Pop(&s.queue).(expiry)
		cur, ok := s.live[e.kind]
		if !ok || cur.ExpiresAt.After(now) {
			continue // stale entry: removed already or refreshed since
		}
		delete(s.live, e.kind)
		expired = append(expired, e.kind)
	}
	return expired
}

func (s *effectSet) has(kind catalog.EffectKind) bool {
	_, ok := s.live[kind]
	return ok
}

// speedFactor is the product of the amplifiers of speed-modifying effects.
func (s *effectSet) speedFactor() float64 {
	f := 1.0
	for _, e := range s.live {
		if e.Kind.ModifiesSpeed() {
			f *= e.Amplifier
		}
	}
	return f
}

func (s *effectSet) list() []ActiveEffect {
	out := make([]ActiveEffect, 0, len(s.live))
	for _, k := range catalog.EffectKinds {
		if e, ok := s.live[k]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (s *effectSet) clear() {
	for k := range s.live {
		delete(s.live, k)
	}
	s.queue = s.queue[:0]
}

func (s *effectSet) pending() int {
	return s.queue.Len()
}
