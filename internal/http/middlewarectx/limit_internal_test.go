package middlewarectx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestVisitors_EvictsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	v := newVisitors(1, 1, 10*time.Minute, clock.now)

	for _, host := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		v.limiterFor(host)
	}
	assert.Equal(t, 3, v.size())

	clock.t = clock.t.Add(5 * time.Minute)
	v.limiterFor("10.0.0.1")
	assert.Equal(t, 3, v.size(), "no sweep before idle ttl")

	clock.t = clock.t.Add(6 * time.Minute)
	v.limiterFor("10.0.0.4")
	assert.Equal(t, 2, v.size(), "10.0.0.2 and 10.0.0.3 were idle for 11 minutes")

	clock.t = clock.t.Add(time.Hour)
	v.limiterFor("10.0.0.5")
	assert.Equal(t, 1, v.size())
}

func TestVisitors_KeepsBudgetOfActiveClient(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	v := newVisitors(0.001, 1, time.Minute, clock.now)

	assert.True(t, v.limiterFor("10.0.0.1").Allow())
	clock.t = clock.t.Add(30 * time.Second)
	assert.False(t, v.limiterFor("10.0.0.1").Allow(), "same limiter while the client is active")
}
