// Package upstream talks to the authoritative video platform. The rest of
// the application only sees the Gateway contract; transport, quotas and
// response shapes stay in here.
package upstream

import (
	"context"
	"errors"

	"github.com/sorekai/livetrack/internal/models"
)

// ErrChannelNotFound indicates the upstream API no longer knows the channel.
var ErrChannelNotFound = errors.New("channel not found upstream")

// Gateway is the contract for the upstream content API.
//
// FetchVideosByIDs returns the current authoritative records for the given
// ids. Ids the upstream no longer reports are simply absent from the result;
// absence is data, not an error.
type Gateway interface {
	FetchVideosByIDs(ctx context.Context, ids []string) ([]models.Video, error)
	FetchChannel(ctx context.Context, channelID string) (*models.Channel, error)
	// DiscoverVideoIDs is the low-cost per-channel probe used to find
	// candidate video ids without spending typed-record API quota.
	DiscoverVideoIDs(ctx context.Context, channelID string) ([]string, error)
}
