package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/eventstore"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs       []published
	publishErr error
	flushes    int
	drained    bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.msgs = append(c.msgs, published{subject: subject, data: data})
	return nil
}

func (c *fakeConn) FlushWithContext(context.Context) error {
	c.flushes++
	return nil
}

func (c *fakeConn) Drain() error {
	c.drained = true
	return nil
}

func TestPublisherRecord(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, "branchlaunch.events")

	e, err := eventstore.NewProcessStarted("run-1", "backend", 4242, "uvicorn app.main:app")
	require.NoError(t, err)
	e.EventMetadata = map[string]string{"commit": "abc"}

	require.NoError(t, p.Record(t.Context(), e))
	require.Len(t, conn.msgs, 1)
	assert.Equal(t, "branchlaunch.events.process_started", conn.msgs[0].subject)
	assert.Equal(t, 1, conn.flushes)

	var msg Message
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &msg))
	assert.Equal(t, "run-1", msg.RunID)
	assert.Equal(t, eventstore.TypeProcessStarted, msg.Type)
	assert.Equal(t, "abc", msg.Metadata["commit"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "backend", payload["process"])
	assert.InDelta(t, 4242, payload["pid"], 0)

	require.NoError(t, p.Close())
	assert.True(t, conn.drained)
}

func TestPublisherRecordError(t *testing.T) {
	conn := &fakeConn{publishErr: errors.New("connection closed")}
	p := NewPublisher(conn, "events")

	e, err := eventstore.NewRunStopped("run-1", time.Minute)
	require.NoError(t, err)

	err = p.Record(t.Context(), e)
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryNotify, ce.Category())
	subject, ok := ferrors.ContextString(err, "subject")
	require.True(t, ok)
	assert.Equal(t, "events.run_stopped", subject)
}

func TestConnectFailure(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", "events")
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryNotify, ce.Category())
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "run_started", snakeCase("RunStarted"))
	assert.Equal(t, "process_terminated", snakeCase("ProcessTerminated"))
	assert.Equal(t, "lower", snakeCase("lower"))
}
