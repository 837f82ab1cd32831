package aok

import (
	"fmt"

	"github.com/norasector/shadewave/pkg/proto"
	"github.com/norasector/shadewave/pkg/pulse"
)

// Registered adapts Protocol to the registry's untyped surface. The
// message type is Data.
type Registered struct {
	Protocol
}

func (r *Registered) Encode(dst *pulse.TransmitData, msg proto.Message) error {
	data, ok := msg.(Data)
	if !ok {
		return fmt.Errorf("unrecognized message type %T for protocol %s", msg, ProtocolName)
	}
	r.Protocol.Encode(dst, data)
	return nil
}

func (r *Registered) Decode(src *pulse.ReceiveData) (proto.Message, bool) {
	data, ok := r.Protocol.Decode(src)
	if !ok {
		return nil, false
	}
	return data, true
}

func (r *Registered) Dump(msg proto.Message) string {
	data, ok := msg.(Data)
	if !ok {
		return fmt.Sprintf("unrecognized message type %T", msg)
	}
	return r.Protocol.Dump(data)
}
