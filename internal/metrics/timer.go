package metrics

import (
	"strconv"
	"time"
)

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

func statusCode(code int) string {
	return strconv.Itoa(code)
}
