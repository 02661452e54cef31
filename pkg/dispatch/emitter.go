package dispatch

import (
	"context"

	"github.com/pkg/errors"

	"github.com/go-go-golems/plugbus/pkg/bus"
	"github.com/go-go-golems/plugbus/pkg/protocol"
)

// EmitReply closes the correlation loop: it wraps result in a reply
// envelope (fresh id, replyId and origin metadata taken from orig) and
// publishes it on the channel named by orig's id, where the original
// sender is presumably awaiting exactly that channel. No retry: a publish
// failure propagates to the caller and the sender's await never resolves.
func EmitReply(ctx context.Context, pub bus.Publisher, orig *protocol.Envelope, result protocol.Payload) error {
	reply := protocol.NewReply(orig, result)
	return errors.Wrapf(pub.Publish(ctx, orig.ReplyChannel(), reply), "emit reply to %s", orig.ID)
}
