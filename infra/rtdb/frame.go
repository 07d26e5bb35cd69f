package rtdb

import "encoding/json"

// frame is the wire unit in both directions. Requests carry a correlation
// id; the server answers each request with ack or err, and pushes snap
// frames for subscribed paths on its own schedule.
type frame struct {
	Op    string          `json:"op"`
	Req   uint64          `json:"req,omitempty"`
	Path  string          `json:"path,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Client-to-server ops.
const (
	opSub   = "sub"
	opUnsub = "unsub"
	opGet   = "get"
	opPut   = "put"
	opPatch = "patch"
)

// Server-to-client ops.
const (
	opSnap = "snap"
	opAck  = "ack"
	opErr  = "err"
)
