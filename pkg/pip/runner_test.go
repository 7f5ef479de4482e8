package pip

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix echo")
	}
	r := NewExecRunner(nil)

	result, err := r.Run(context.Background(), []string{"echo", "hello"}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", result.Stdout)
}

func TestExecRunner_Run_SpawnFailure(t *testing.T) {
	r := NewExecRunner(nil)

	result, err := r.Run(context.Background(), []string{"pyscope-no-such-binary"}, time.Second)
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
}

func TestExecRunner_Run_EmptyArgs(t *testing.T) {
	r := NewExecRunner(nil)
	_, err := r.Run(context.Background(), nil, time.Second)
	assert.Error(t, err)
}

func TestExecRunner_RunStreaming(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix echo")
	}
	r := NewExecRunner(nil)

	var events []ProgressEvent
	ok, msg, lines := r.RunStreaming(context.Background(), []string{"echo", "Collecting requests"}, 5*time.Second, func(e ProgressEvent) {
		events = append(events, e)
	})

	assert.True(t, ok)
	assert.Equal(t, "Successfully completed", msg)
	require.Len(t, lines, 1)
	require.Len(t, events, 1)
	assert.Equal(t, EventCollecting, events[0].Type)
	assert.Equal(t, "requests", events[0].Package)
}

func TestExecRunner_RunStreaming_SpawnFailure(t *testing.T) {
	r := NewExecRunner(nil)
	ok, msg, _ := r.RunStreaming(context.Background(), []string{"pyscope-no-such-binary"}, time.Second, nil)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}
