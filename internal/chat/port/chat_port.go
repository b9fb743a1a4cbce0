// Package port defines the interface for the client that talks to the
// responder service via POST /v1/respond.
//
// The ChatService depends on this interface, never on the concrete
// client, which keeps the strategies testable with simple mocks.
package port

import (
	"context"

	chatdomain "github.com/fundascope/sme-funding-bfa-go/internal/chat/domain"
	maindomain "github.com/fundascope/sme-funding-bfa-go/internal/domain"
)

// ResponderCaller sends a message to the responder service and returns
// its phrased reply.
type ResponderCaller interface {
	Respond(ctx context.Context, req *chatdomain.ResponderRequest) (*chatdomain.ResponderResponse, error)
}

// MatchRunner runs the matcher over a profile and returns the buckets
// plus any improvement levers. Implemented by the match service; the
// chat slice must not depend on it directly.
type MatchRunner interface {
	MatchProfile(ctx context.Context, profile maindomain.Profile) (maindomain.Buckets, []string, error)
}
