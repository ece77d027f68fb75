package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetConnectionStateIsExclusive(t *testing.T) {
	SetConnectionState("connecting")
	SetConnectionState("connected")

	if v := testutil.ToFloat64(connectionState.WithLabelValues("connected")); v != 1 {
		t.Errorf("connected = %v, want 1", v)
	}
	for _, s := range []string{"connecting", "disconnected"} {
		if v := testutil.ToFloat64(connectionState.WithLabelValues(s)); v != 0 {
			t.Errorf("%s = %v, want 0", s, v)
		}
	}
}

func TestRecordPushMessageUnknownType(t *testing.T) {
	before := testutil.ToFloat64(pushMessagesTotal.WithLabelValues("unknown"))
	RecordPushMessage("")
	after := testutil.ToFloat64(pushMessagesTotal.WithLabelValues("unknown"))
	if after != before+1 {
		t.Errorf("unknown counter = %v, want %v", after, before+1)
	}
}
