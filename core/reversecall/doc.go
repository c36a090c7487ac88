// Package reversecall implements the client side of a reverse call: the client
// connects to the runtime and registers itself, after which the runtime calls
// back into the client with requests over the same connection.
//
// # Protocol
//
// A connection is established by subscribing to a private callback subject
// and sending [ConnectArguments] to the runtime's connect subject. The reply is
// a [ConnectResponse]; a failure in it is a registration failure and is
// reported as [ErrRegistrationFailed].
//
// Once connected the runtime sends [Frame] values to the callback subject:
//
//   - ping frames are answered with a pong
//   - request frames are passed to the [Handler] and answered with its response
//
// If no ping arrives for three ping intervals the connection is considered
// dead and torn down.
//
// # Usage
//
//	c, err := reversecall.NewClient(reversecall.Options[Reg]{
//	    Transport:      tr,
//	    ConnectSubject: "dolittle.embeddings.connect",
//	    Registration:   reg,
//	}, func(ctx context.Context, req Req) Resp {
//	    return handle(ctx, req)
//	})
//	go c.Run(ctx) // reconnects until ctx is cancelled
package reversecall
