// Package console provides the terminal implementations of the view's
// capabilities: confirmation prompts, notifications and dialogs.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/notify"
)

// Confirmer reads a y/N answer per prompt. AssumeYes answers every prompt
// without reading.
type Confirmer struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool

	once  sync.Once
	lines chan answer
}

type answer struct {
	line string
	err  error
}

// readLines is the only reader of In. It stops after the first read error.
func (c *Confirmer) readLines() {
	defer close(c.lines)
	reader := bufio.NewReader(c.In)
	for {
		line, err := reader.ReadString('\n')
		if line != "" || err != nil {
			c.lines <- answer{line, err}
		}
		if err != nil {
			return
		}
	}
}

func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.AssumeYes {
		fmt.Fprintf(c.Out, "%s [y/N] y\n", prompt)
		return true, nil
	}
	c.once.Do(func() {
		c.lines = make(chan answer)
		go c.readLines()
	})
	fmt.Fprintf(c.Out, "%s [y/N] ", prompt)

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a, ok := <-c.lines:
		if !ok {
			return false, nil
		}
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

// Notifier prints notifications and logs them.
type Notifier struct {
	Out    io.Writer
	Logger *zap.SugaredLogger

	mu sync.Mutex
}

var labels = map[notify.Type]string{
	notify.Info:    "INFO",
	notify.Success: "OK",
	notify.Warning: "WARN",
	notify.Danger:  "ERROR",
}

func (n *Notifier) Notify(note notify.Notification) {
	n.mu.Lock()
	fmt.Fprintf(n.Out, "[%s] %s: %s\n", labels[note.Type], note.Summary, note.Body)
	n.mu.Unlock()
	if n.Logger != nil {
		n.Logger.Infow("Notification", "type", string(note.Type), "summary", note.Summary, "body", note.Body)
	}
}

// Modal prints a dialog when it is shown. Renderers are looked up by dialog
// id; a dialog without renderer prints its id only.
type Modal struct {
	Out       io.Writer
	Renderers map[string]func(w io.Writer)

	mu      sync.Mutex
	onClose map[string]func()
}

func (m *Modal) Show(dialogID string, onClose func()) {
	m.mu.Lock()
	if m.onClose == nil {
		m.onClose = map[string]func(){}
	}
	m.onClose[dialogID] = onClose
	render := m.Renderers[dialogID]
	m.mu.Unlock()

	fmt.Fprintf(m.Out, "--- %s ---\n", dialogID)
	if render != nil {
		render(m.Out)
	}
}

func (m *Modal) Close(dialogID string) {
	m.mu.Lock()
	cb, open := m.onClose[dialogID]
	delete(m.onClose, dialogID)
	m.mu.Unlock()
	if !open {
		return
	}
	fmt.Fprintf(m.Out, "--- end %s ---\n", dialogID)
	if cb != nil {
		cb()
	}
}

func (m *Modal) IsOpen(dialogID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.onClose[dialogID]
	return ok
}
