// Package config loads the compile-time task and event tables of §6.3 from
// a YAML document, for demos and host-mode tests where editing and
// re-literalizing a Go slice on every change is more friction than it is
// worth. The loader resolves entirely before kernel.New is called: nothing
// here runs after Init, so it does not reintroduce the dynamic task
// creation the kernel's design explicitly excludes.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/isus-ipanienko/seal/kernel"
	"github.com/isus-ipanienko/seal/port"
)

// TaskSpec is one YAML row of the task table (§6.3). Entry names a key into
// the EntryRegistry passed to Resolve, rather than carrying Go code itself.
type TaskSpec struct {
	ID        int    `yaml:"id"`
	Priority  int    `yaml:"priority"`
	StackSize uint64 `yaml:"stack_size_bytes"`
	Entry     string `yaml:"entry"`
	Param     any    `yaml:"param"`
}

// EventSpec is one YAML row of the event table (§6.3).
type EventSpec struct {
	ID           int    `yaml:"id"`
	Kind         string `yaml:"kind"` // "mutex" or "semaphore"
	InitialCount int    `yaml:"initial_count"`
}

// Document is the root of a task/event table YAML document.
type Document struct {
	Tasks  []TaskSpec  `yaml:"tasks"`
	Events []EventSpec `yaml:"events"`
}

// EntryRegistry maps the Entry names used in a Document to the actual task
// bodies, since YAML cannot name Go functions directly.
type EntryRegistry map[string]kernel.Entry

// Parse decodes a task/event table document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &doc, nil
}

// Resolve turns a parsed Document into the TaskDescriptor/EventDescriptor
// slices kernel.New expects, looking up each TaskSpec.Entry in registry.
func (d *Document) Resolve(registry EntryRegistry) ([]kernel.TaskDescriptor, []kernel.EventDescriptor, error) {
	tasks := make([]kernel.TaskDescriptor, 0, len(d.Tasks))
	for _, ts := range d.Tasks {
		entry, ok := registry[ts.Entry]
		if !ok {
			return nil, nil, fmt.Errorf("config: task %d: no entry registered under name %q", ts.ID, ts.Entry)
		}
		if ts.Priority < 0 || ts.Priority >= kernel.MaxPriorities {
			return nil, nil, fmt.Errorf("config: task %d: priority %d out of range", ts.ID, ts.Priority)
		}
		tasks = append(tasks, kernel.TaskDescriptor{
			ID:        port.TaskID(ts.ID),
			Priority:  kernel.Priority(ts.Priority),
			StackSize: uintptr(ts.StackSize),
			Entry:     entry,
			Param:     ts.Param,
		})
	}

	events := make([]kernel.EventDescriptor, 0, len(d.Events))
	for _, es := range d.Events {
		var kind kernel.EventKind
		switch es.Kind {
		case "mutex":
			kind = kernel.EventKindMutex
		case "semaphore":
			kind = kernel.EventKindSemaphore
		default:
			return nil, nil, fmt.Errorf("config: event %d: unknown kind %q, want \"mutex\" or \"semaphore\"", es.ID, es.Kind)
		}
		events = append(events, kernel.EventDescriptor{
			ID:           es.ID,
			Kind:         kind,
			InitialCount: es.InitialCount,
		})
	}

	return tasks, events, nil
}

// Load is a convenience wrapping Parse and Resolve.
func Load(r io.Reader, registry EntryRegistry) ([]kernel.TaskDescriptor, []kernel.EventDescriptor, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, nil, err
	}
	return doc.Resolve(registry)
}
