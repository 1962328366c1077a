package influxdb

import (
	"context"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/feedbridge/internal/feed"
)

// measurementFeedState is the measurement every feed event is written to.
const measurementFeedState = "feed_state"

// feedStatePoint builds the point for one event:
//
//	feed_state,direction=<dir>,feed=<feed> left=<0|1>i,right=<0|1>i,code=<0..3>i
func feedStatePoint(e feed.Event) *write.Point {
	left, right := 0, 0
	if e.State.Left {
		left = 1
	}
	if e.State.Right {
		right = 1
	}

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	return write.NewPoint(
		measurementFeedState,
		map[string]string{
			"feed":      e.Feed,
			"direction": string(e.Direction),
		},
		map[string]interface{}{
			"left":  left,
			"right": right,
			"code":  e.State.Code(),
		},
		at,
	)
}

// WriteFeedState queues one feed event. The write is non-blocking; delivery
// failures arrive through the SetOnError callback.
//
// Returns ErrNotConnected after Close.
func (c *Client) WriteFeedState(e feed.Event) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	c.writeAPI.WritePoint(feedStatePoint(e))
	return nil
}

// Recorder adapts a Client to feed.Recorder.
type Recorder struct {
	Client *Client
}

// Record implements feed.Recorder.
func (r Recorder) Record(_ context.Context, e feed.Event) error {
	if r.Client == nil {
		return ErrNotConnected
	}
	return r.Client.WriteFeedState(e)
}
