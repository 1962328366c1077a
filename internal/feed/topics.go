package feed

import "fmt"

// getSuffix is appended to a feed topic to request its retained value.
const getSuffix = "/get"

// Topic builds Adafruit IO topic strings for one feed.
//
//	t := feed.Topic{Username: "hari", Feed: "buttons"}
//	t.String() // "hari/feeds/buttons"
//	t.Get()    // "hari/feeds/buttons/get"
type Topic struct {
	Username string
	Feed     string
}

// String returns the publish/subscribe topic, <username>/feeds/<feed>.
func (t Topic) String() string {
	return fmt.Sprintf("%s/feeds/%s", t.Username, t.Feed)
}

// Get returns the retained-value request topic, <username>/feeds/<feed>/get.
//
// Publishing any payload here makes Adafruit IO resend the last value it
// holds for the feed to every subscriber.
func (t Topic) Get() string {
	return t.String() + getSuffix
}
