package session

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Valid(t *testing.T) {
	assert.False(t, Session{}.Valid())
	assert.True(t, Session{OwnerID: uuid.New()}.Valid())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(Info("Saved", "ok"))
	r.Notify(Error("Error", "boom"))

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, LevelError, last.Level)
	assert.Len(t, r.All(), 2)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogSink{Logger: logger}.Notify(Error("Error", "Failed to update resume"))

	assert.Contains(t, buf.String(), `"level":"warning"`)
	assert.Contains(t, buf.String(), `"msg":"Failed to update resume"`)
	assert.Contains(t, buf.String(), `"title":"Error"`)
}
