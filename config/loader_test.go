package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isus-ipanienko/seal/config"
	"github.com/isus-ipanienko/seal/kernel"
)

const sampleYAML = `
tasks:
  - id: 1
    priority: 1
    stack_size_bytes: 1024
    entry: worker
  - id: 2
    priority: 2
    stack_size_bytes: 1024
    entry: worker
    param: 7
events:
  - id: 0
    kind: mutex
  - id: 1
    kind: semaphore
    initial_count: 2
`

func TestLoad(t *testing.T) {
	registry := config.EntryRegistry{
		"worker": func(tc *kernel.TaskContext, param any) {},
	}

	tasks, events, err := config.Load(strings.NewReader(sampleYAML), registry)
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.EqualValues(t, 1, tasks[0].ID)
	assert.EqualValues(t, 1, tasks[0].Priority)
	assert.Nil(t, tasks[0].Param)
	assert.EqualValues(t, 7, tasks[1].Param)

	require.Len(t, events, 2)
	assert.Equal(t, kernel.EventKindMutex, events[0].Kind)
	assert.Equal(t, kernel.EventKindSemaphore, events[1].Kind)
	assert.Equal(t, 2, events[1].InitialCount)
}

func TestLoadUnknownEntry(t *testing.T) {
	const doc = `
tasks:
  - id: 1
    priority: 1
    stack_size_bytes: 1024
    entry: nonexistent
`
	_, _, err := config.Load(strings.NewReader(doc), config.EntryRegistry{})
	assert.Error(t, err)
}

func TestLoadUnknownEventKind(t *testing.T) {
	const doc = `
events:
  - id: 0
    kind: rwlock
`
	_, _, err := config.Load(strings.NewReader(doc), config.EntryRegistry{})
	assert.Error(t, err)
}

func TestLoadPriorityOutOfRange(t *testing.T) {
	doc := `
tasks:
  - id: 1
    priority: 999
    stack_size_bytes: 1024
    entry: worker
`
	registry := config.EntryRegistry{"worker": func(tc *kernel.TaskContext, param any) {}}
	_, _, err := config.Load(strings.NewReader(doc), registry)
	assert.Error(t, err)
}
