// Package render computes the page content served to terminal clients.
// A render is a pure function of (page kind, selector) producing a string
// in either plain-text or JSON format; caching lives elsewhere.
package render

// PageKind identifies one of the fixed set of pages.
type PageKind string

const (
	// PageRoot lists upcoming and live videos for a selector.
	PageRoot PageKind = "root"
	// PageList lists the tracked channels.
	PageList PageKind = "list"
)

// Format selects the output representation of a page.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Selector identifies which slice of videos a rendered page represents:
// every channel, one channel, or an unrecognized alias. It doubles as the
// cache key for the page content.
type Selector string

const (
	// SelectorAll spans every active channel.
	SelectorAll Selector = "all"
	// SelectorInvalid marks a request for an alias that is not tracked.
	SelectorInvalid Selector = "invalid"
	// SelectorNone is the singleton key for pages without a channel axis.
	SelectorNone Selector = ""
)

// ChannelSelector returns the selector scoped to a single channel id
func ChannelSelector(channelID string) Selector {
	return Selector(channelID)
}

// channelID returns the channel filter for a store query: nil when the
// selector spans all channels.
func (s Selector) channelID() *string {
	if s == SelectorAll || s == SelectorNone {
		return nil
	}
	id := string(s)
	return &id
}
