package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTaskProfileWireRoundTrip(t *testing.T) {
	p := TaskProfile{
		Last:           1500 * time.Microsecond,
		Max:            5 * time.Millisecond,
		Average:        2 * time.Millisecond,
		Total:          200 * time.Millisecond,
		ElementHandle:  uuid.New(),
		Classification: ProfileControl,
	}

	buf := p.EncodeBinary()
	if len(buf) != wireSize {
		t.Fatalf("expected encoded size %d, got %d", wireSize, len(buf))
	}

	got, err := DecodeTaskProfile(buf)
	if err != nil {
		t.Fatalf("DecodeTaskProfile returned error: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestDecodeTaskProfileRejectsWrongSize(t *testing.T) {
	_, err := DecodeTaskProfile(make([]byte, wireSize-1))
	if err == nil {
		t.Fatalf("expected an error decoding a short buffer")
	}
}

func TestRecordExecutionUpdatesRunningTotals(t *testing.T) {
	elem := newTestElement()
	pt := New(elem, nil, nil, nil)

	pt.RecordExecution(10 * time.Millisecond)
	pt.RecordExecution(30 * time.Millisecond)

	last, max, avg, total, count := pt.ProfileSnapshot()
	if last != 30*time.Millisecond {
		t.Errorf("expected last 30ms, got %s", last)
	}
	if max != 30*time.Millisecond {
		t.Errorf("expected max 30ms, got %s", max)
	}
	if total != 40*time.Millisecond {
		t.Errorf("expected total 40ms, got %s", total)
	}
	if avg != 20*time.Millisecond {
		t.Errorf("expected average 20ms, got %s", avg)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}
