// Package proto is the host's protocol registration point. A codec
// exposes exactly three operations: encode a message into pulses,
// decode pulses into at most one message, and format a decoded message
// for diagnostics.
package proto

import (
	"fmt"
	"sync"

	"github.com/norasector/shadewave/pkg/pulse"
)

// Message is a protocol-specific decoded record. Each codec documents
// its concrete type.
type Message interface{}

type Protocol interface {
	Name() string
	Encode(dst *pulse.TransmitData, msg Message) error
	Decode(src *pulse.ReceiveData) (Message, bool)
	Dump(msg Message) string
}

// Registry maps fixed protocol names to codecs. There is no arbitration
// between protocols; a caller addresses one codec by name.
type Registry struct {
	mu        sync.RWMutex
	protocols map[string]Protocol
}

func NewRegistry() *Registry {
	return &Registry{
		protocols: make(map[string]Protocol),
	}
}

func (r *Registry) Register(p Protocol) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.protocols[p.Name()]; ok {
		return fmt.Errorf("protocol %q already registered", p.Name())
	}
	r.protocols[p.Name()] = p
	return nil
}

func (r *Registry) Lookup(name string) (Protocol, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.protocols[name]
	if !ok {
		return nil, fmt.Errorf("unrecognized protocol: %s", name)
	}
	return p, nil
}
