package model

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Clock struct {
	mu          sync.Mutex
	initial     time.Duration
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		initial:  initialTime,
		timeLeft: initialTime,
		now:      time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		log.Debugf("clock stopped with %v left", c.timeLeft)
		c.isRunning = false
	}
}

// Reset stops the clock and restores the initial time.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeLeft = c.initial
	c.isRunning = false
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - c.now().Sub(c.lastStarted)
	}
	return c.timeLeft
}

// Expired reports whether the clock has run out. A clock with no initial
// time is untimed and never expires.
func (c *Clock) Expired() bool {
	if c.initial <= 0 {
		return false
	}
	return c.GetTimeLeft() <= 0
}

// deciseconds is the unit the client displays. An overrun clock shows zero.
func (c *Clock) deciseconds() int {
	if c.initial <= 0 {
		return 0
	}
	left := c.GetTimeLeft()
	if left < 0 {
		return 0
	}
	return int(left.Milliseconds() / 100)
}
