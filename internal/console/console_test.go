package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/notify"
)

func TestConfirmer(t *testing.T) {
	var out bytes.Buffer
	c := &Confirmer{In: strings.NewReader("y\nno\nYES\n"), Out: &out}
	ctx := context.Background()

	for _, want := range []bool{true, false, true, false} {
		got, err := c.Confirm(ctx, "Delete?")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 4, strings.Count(out.String(), "Delete? [y/N]"))

	yes := &Confirmer{In: strings.NewReader(""), Out: io.Discard, AssumeYes: true}
	ok, err := yes.Confirm(ctx, "Submit?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmerCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Confirmer{In: r, Out: io.Discard}).Confirm(ctx, "Delete?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfirmAfterCancelReadsNextAnswer(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := &Confirmer{In: r, Out: io.Discard}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Confirm(ctx, "Delete?")
	require.ErrorIs(t, err, context.Canceled)

	go io.WriteString(w, "y\n")
	ok, err := c.Confirm(context.Background(), "Submit?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmAtEOF(t *testing.T) {
	c := &Confirmer{In: strings.NewReader("yes"), Out: io.Discard}

	for _, want := range []bool{true, false, false} {
		ok, err := c.Confirm(context.Background(), "Delete?")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
}

func TestNotifier(t *testing.T) {
	var out bytes.Buffer
	n := &Notifier{Out: &out, Logger: zaptest.NewLogger(t).Sugar()}
	n.Notify(notify.Notification{Summary: "Request deleted", Body: "Gone.", Type: notify.Success})
	n.Notify(notify.Notification{Summary: "Error", Body: "Boom.", Type: notify.Danger})
	assert.Equal(t, "[OK] Request deleted: Gone.\n[ERROR] Error: Boom.\n", out.String())
}

func TestModal(t *testing.T) {
	var out bytes.Buffer
	closed := 0
	m := &Modal{Out: &out, Renderers: map[string]func(io.Writer){
		"recipient": func(w io.Writer) { io.WriteString(w, "Grace Hopper\n") },
	}}

	m.Show("recipient", func() { closed++ })
	assert.True(t, m.IsOpen("recipient"))
	m.Close("recipient")
	m.Close("recipient")

	assert.Equal(t, 1, closed)
	assert.False(t, m.IsOpen("recipient"))
	assert.Contains(t, out.String(), "Grace Hopper")
}
