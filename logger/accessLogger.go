package logger

import (
	"sync"

	"moneyticket-demo/models/demo"
	"moneyticket-demo/storage"
)

// AccessLogger persists demo access-log entries asynchronously so that
// logging never adds latency to, or fails, a request. Entries are dropped
// when the buffer is full.
type AccessLogger struct {
	store   storage.Store
	channel chan demo.AccessLog
	done    chan struct{}
	once    sync.Once
}

func NewAccessLogger(store storage.Store) *AccessLogger {
	return &AccessLogger{
		store:   store,
		channel: make(chan demo.AccessLog, 100),
		done:    make(chan struct{}),
	}
}

// Process drains the channel and writes entries to the store. Run it in its
// own goroutine.
func (l *AccessLogger) Process() {
	Info("Starting asynchronous access logger...")

	for entry := range l.channel {
		record := entry
		if err := l.store.CreateAccessLog(&record); err != nil {
			Error("Failed to insert access log entry", err)
		}
	}
	close(l.done)
}

// Log enqueues an entry without blocking the caller.
func (l *AccessLogger) Log(entry demo.AccessLog) {
	select {
	case l.channel <- entry:
	default:
		Warning("Access log buffer full, dropping entry: " + string(entry.Action))
	}
}

// Close stops the logger and waits for queued entries to be written.
func (l *AccessLogger) Close() {
	l.once.Do(func() {
		close(l.channel)
		<-l.done
	})
}
