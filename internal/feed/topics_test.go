package feed

import "testing"

func TestTopic(t *testing.T) {
	topic := Topic{Username: "hari", Feed: "buttons"}

	if got := topic.String(); got != "hari/feeds/buttons" {
		t.Errorf("String() = %q, want %q", got, "hari/feeds/buttons")
	}
	if got := topic.Get(); got != "hari/feeds/buttons/get" {
		t.Errorf("Get() = %q, want %q", got, "hari/feeds/buttons/get")
	}
}
