// Package logging carries the small logger interface threaded through the
// runner. Debug output goes through it; the per-test tally does not.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Println(args ...interface{})                {}
func (n nullLogger) Printf(message string, args ...interface{}) {}

// Null discards everything.
func Null() Logger { return nullLogger{} }

// New writes timestamped lines to w.
func New(w io.Writer) Logger {
	return log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}

type prefixedLogger struct {
	base   Logger
	prefix string
}

func WithPrefix(base Logger, prefix string) Logger {
	return prefixedLogger{base, prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}

type CapturedMessage struct {
	Time    time.Time
	Message string
}

// Capture records messages in memory. Safe for concurrent use.
type Capture struct {
	lock   sync.Mutex
	output []CapturedMessage
}

func (c *Capture) Println(args ...interface{}) {
	m := strings.TrimRight(fmt.Sprintln(args...), "\r\n")
	c.append(CapturedMessage{Time: time.Now(), Message: m})
}

func (c *Capture) Printf(message string, args ...interface{}) {
	c.append(CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
}

func (c *Capture) append(m CapturedMessage) {
	c.lock.Lock()
	c.output = append(c.output, m)
	c.lock.Unlock()
}

// Messages returns the captured text, oldest first.
func (c *Capture) Messages() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	ret := make([]string, 0, len(c.output))
	for _, m := range c.output {
		ret = append(ret, m.Message)
	}
	return ret
}

// String renders the captured output with timestamps, one line per message.
func (c *Capture) String(prefix string) string {
	c.lock.Lock()
	defer c.lock.Unlock()
	lines := make([]string, 0, len(c.output))
	for _, m := range c.output {
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, m.Time.Format(timestampFormat), m.Message))
	}
	return strings.Join(lines, "\n")
}
