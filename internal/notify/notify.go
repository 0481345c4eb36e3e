package notify

import "sync"

type Type string

const (
	Info    Type = "info"
	Success Type = "success"
	Warning Type = "warning"
	Danger  Type = "danger"
)

// Notification is a non-blocking message for the user.
type Notification struct {
	Summary string
	Body    string
	Type    Type
}

type Notifier interface {
	Notify(n Notification)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *Recorder) Count(t Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.Type == t {
			n++
		}
	}
	return n
}
