package logging

import (
	"fmt"
	"io"
	"os"
)

// EarlyLog reports startup problems that happen before the configured
// logger exists, such as a missing or unreadable config file.
type EarlyLog struct {
	out  io.Writer
	name string
}

func NewEarlyLog(name string) *EarlyLog {
	return &EarlyLog{out: os.Stderr, name: name}
}

func (l *EarlyLog) SetOutput(w io.Writer) {
	l.out = w
}

func (l *EarlyLog) write(level, msg string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s: %s\n", level, l.name, fmt.Sprintf(msg, args...))
}

func (l *EarlyLog) Error(msg string, args ...interface{}) {
	l.write("ERROR", msg, args...)
}

func (l *EarlyLog) Warn(msg string, args ...interface{}) {
	l.write("WARN", msg, args...)
}

func (l *EarlyLog) Info(msg string, args ...interface{}) {
	l.write("INFO", msg, args...)
}
