package reversecall

// Failure describes why the runtime or the client could not do something.
type Failure struct {
	Reason string `json:"reason"`
}

func (f *Failure) Error() string { return f.Reason }

// ConnectArguments is sent to the connect subject to establish a connection.
type ConnectArguments[Reg any] struct {
	CallbackSubject string   `json:"callbackSubject"`
	PingInterval    Duration `json:"pingInterval"`
	Registration    Reg      `json:"registration"`
}

// ConnectResponse is the runtime's answer to ConnectArguments.
type ConnectResponse struct {
	Failure *Failure `json:"failure,omitempty"`
}

type FrameKind string

const (
	FramePing     FrameKind = "ping"
	FramePong     FrameKind = "pong"
	FrameRequest  FrameKind = "request"
	FrameResponse FrameKind = "response"
)

// Frame is a message on the callback subject. Payload is set for request and
// response frames only.
type Frame[T any] struct {
	Kind    FrameKind `json:"kind"`
	ID      string    `json:"id,omitempty"`
	Payload *T        `json:"payload,omitempty"`
}
