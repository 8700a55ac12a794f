package scanner

import "sync"

// maxLoggedErrors caps the error log so a scan of an unreadable tree cannot
// grow it without bound.
const maxLoggedErrors = 500

// ScanError is a recovered failure for a single path.
type ScanError struct {
	Path string `json:"path" yaml:"path"`
	Err  string `json:"error" yaml:"error"`
}

func (e ScanError) String() string {
	return e.Path + ": " + e.Err
}

// errorLog is an append-only collector shared by all walker goroutines.
type errorLog struct {
	mu      sync.Mutex
	entries []ScanError
	dropped int
}

func (l *errorLog) add(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) >= maxLoggedErrors {
		l.dropped++
		return
	}
	l.entries = append(l.entries, ScanError{Path: path, Err: err.Error()})
}

func (l *errorLog) snapshot() ([]ScanError, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ScanError(nil), l.entries...), l.dropped
}
