package logx

import (
	"time"
)

type Timer struct {
	start time.Time
	id    string
	comp  string
	op    string
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

func Start(id, comp, op string) *Timer {
	return &Timer{
		start: time.Now(),
		id:    id,
		comp:  comp,
		op:    op,
	}
}

func (t *Timer) End() {
	Debug(t.comp, "[%s][TIMING] %s = %v", t.id, t.op, t.Duration())
}
