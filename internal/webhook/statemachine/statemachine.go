// Package statemachine decides whether an incoming lifecycle event may be
// applied given the last known state of its entity. The decision is a pure
// function of its inputs: all state is passed in, no I/O happens here.
package statemachine

import (
	"fmt"

	"railhook/internal/webhook"
)

// Transition describes one event in the table: which events may directly
// precede it, and whether it closes the flow for good.
type Transition struct {
	// AllowedPrevious is the set of events that may immediately precede
	// this one. Empty means the event legally opens a flow.
	AllowedPrevious []webhook.EventName
	// Terminal marks events after which no further event may ever be
	// applied to the entity's history.
	Terminal bool
}

// Decision is the validator's verdict. Reason is human-readable and ends up
// in the event log when the transition is rejected.
type Decision struct {
	Allowed bool
	Reason  string
}

// Machine holds an immutable transition table. Construct once at startup and
// inject where needed; the table is copied so callers cannot mutate it later.
type Machine struct {
	transitions map[webhook.EventName]Transition
}

// New builds a Machine from the given table.
func New(transitions map[webhook.EventName]Transition) *Machine {
	copied := make(map[webhook.EventName]Transition, len(transitions))
	for name, t := range transitions {
		prev := make([]webhook.EventName, len(t.AllowedPrevious))
		copy(prev, t.AllowedPrevious)
		copied[name] = Transition{AllowedPrevious: prev, Terminal: t.Terminal}
	}
	return &Machine{transitions: copied}
}

// CanProcess reports whether incoming may be applied after last. An empty
// last means no event has been processed for the entity yet.
//
// Events absent from the table are treated permissively, never as an error:
// an unknown event must not block a flow from progressing.
func (m *Machine) CanProcess(last, incoming webhook.EventName) Decision {
	t, known := m.transitions[incoming]
	if !known {
		return Decision{
			Allowed: true,
			Reason:  fmt.Sprintf("event %s not in transition table, allowed by default", incoming),
		}
	}

	if last == "" {
		if len(t.AllowedPrevious) == 0 {
			return Decision{Allowed: true}
		}
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("event %s requires a prior event but none was processed", incoming),
		}
	}

	// Finality is absolute, independent of the specific incoming event.
	if lastT, ok := m.transitions[last]; ok && lastT.Terminal {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("last processed event %s is terminal", last),
		}
	}

	for _, prev := range t.AllowedPrevious {
		if prev == last {
			return Decision{Allowed: true}
		}
	}
	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("event %s may not follow %s", incoming, last),
	}
}

// IsInitial reports whether the event legally opens a flow.
func (m *Machine) IsInitial(event webhook.EventName) bool {
	t, known := m.transitions[event]
	return known && len(t.AllowedPrevious) == 0
}

// IsTerminal reports whether the event closes a flow.
func (m *Machine) IsTerminal(event webhook.EventName) bool {
	return m.transitions[event].Terminal
}
