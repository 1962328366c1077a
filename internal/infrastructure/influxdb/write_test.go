package influxdb

import (
	"fmt"
	"testing"
	"time"

	"github.com/nerrad567/feedbridge/internal/feed"
)

func TestFeedStatePoint(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		state               feed.State
		wantLeft, wantRight string
		wantCode            string
	}{
		{feed.State{}, "0", "0", "0"},
		{feed.State{Left: true}, "1", "0", "1"},
		{feed.State{Right: true}, "0", "1", "2"},
		{feed.State{Left: true, Right: true}, "1", "1", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			e := feed.Event{Direction: feed.DirectionReceived, Feed: "buttons", State: tt.state, At: at}
			p := feedStatePoint(e)

			if p.Name() != "feed_state" {
				t.Errorf("Name() = %q, want feed_state", p.Name())
			}
			if !p.Time().Equal(at) {
				t.Errorf("Time() = %v, want %v", p.Time(), at)
			}

			tags := make(map[string]string)
			for _, tag := range p.TagList() {
				tags[tag.Key] = tag.Value
			}
			if tags["feed"] != "buttons" || tags["direction"] != "received" {
				t.Errorf("tags = %v, want feed=buttons direction=received", tags)
			}

			fields := make(map[string]string)
			for _, f := range p.FieldList() {
				fields[f.Key] = fmt.Sprint(f.Value)
			}
			if fields["left"] != tt.wantLeft || fields["right"] != tt.wantRight || fields["code"] != tt.wantCode {
				t.Errorf("fields = %v, want left=%s right=%s code=%s", fields, tt.wantLeft, tt.wantRight, tt.wantCode)
			}
		})
	}
}

func TestFeedStatePoint_ZeroTime(t *testing.T) {
	before := time.Now()
	p := feedStatePoint(feed.Event{Direction: feed.DirectionPublished, Feed: "buttons"})
	if p.Time().Before(before) {
		t.Errorf("Time() = %v, want stamped at write time", p.Time())
	}
}
