package browser

import "sync"

// ActionLog is the append-only transcript of executed commands.
type ActionLog struct {
	mu      sync.Mutex
	entries []string
}

func NewActionLog() *ActionLog {
	return &ActionLog{}
}

// Record appends one command.
func (l *ActionLog) Record(command string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, command)
}

// History returns a snapshot of the commands in execution order.
func (l *ActionLog) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}
