package common

import (
	"fmt"
	"log"
	"sync"
)

// Logger logs to the standard logger and keeps the entries so they can be
// returned to the client
type Logger struct {
	mu      sync.Mutex
	Entries []*LogEntry
}

// Dbg prints a debug message. Not kept.
func (l *Logger) Dbg(format string, v ...interface{}) {
	log.Printf("%s\n", fmt.Sprintf(format, v...))
}

// Msg logs an informational message
func (l *Logger) Msg(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Println(msg)
	l.add(&LogEntry{false, msg})
}

// Err logs an error message
func (l *Logger) Err(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Printf("%s\n", fmt.Sprintf("Error: %s", msg))
	l.add(&LogEntry{true, msg})
}

// Fatal calls log.Fatalf
func (l *Logger) Fatal(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

func (l *Logger) add(entry *LogEntry) {
	l.mu.Lock()
	l.Entries = append(l.Entries, entry)
	l.mu.Unlock()
}

// Snapshot returns a copy of the entries
func (l *Logger) Snapshot() []*LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*LogEntry(nil), l.Entries...)
}

// NewLog creates a new logger
func NewLog() *Logger {
	return new(Logger)
}

// LogEntry contains the message and metadata
type LogEntry struct {
	IsError bool   `json:"isError"`
	Msg     string `json:"msg"`
}
