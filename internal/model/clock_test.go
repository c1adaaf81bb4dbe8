package model

import (
	"testing"
	"time"

	"github.com/benbeisheim/grandmaster-backend/internal/testutil"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClock(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(time.Minute)
	c.now = ft.now

	c.Start()
	ft.advance(20 * time.Second)
	testutil.AssertEqual(t, c.GetTimeLeft(), 40*time.Second)

	c.Stop()
	ft.advance(time.Hour)
	testutil.AssertEqual(t, c.GetTimeLeft(), 40*time.Second, "stopped clock kept running")
	testutil.AssertEqual(t, c.deciseconds(), 400)

	c.Start()
	ft.advance(40 * time.Second)
	testutil.AssertTrue(t, c.Expired())

	c.Reset()
	testutil.AssertEqual(t, c.GetTimeLeft(), time.Minute)
	testutil.AssertFalse(t, c.Expired())
}

func TestUntimedClockNeverExpires(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(0)
	c.now = ft.now

	c.Start()
	ft.advance(24 * time.Hour)
	testutil.AssertFalse(t, c.Expired())
	testutil.AssertEqual(t, c.deciseconds(), 0)
}

func TestOverrunClockShowsZero(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(time.Minute)
	c.now = ft.now

	c.Start()
	ft.advance(90 * time.Second)
	testutil.AssertTrue(t, c.Expired())
	testutil.AssertEqual(t, c.GetTimeLeft(), -30*time.Second)
	testutil.AssertEqual(t, c.deciseconds(), 0)

	c.Stop()
	testutil.AssertEqual(t, c.deciseconds(), 0)
}
