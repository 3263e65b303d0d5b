package task

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProfileClass is the small wire enumeration for TaskProfile.Classification.
type ProfileClass uint8

const (
	ProfileSense ProfileClass = iota
	ProfileControl
	ProfileOther
)

// TaskProfile is an immutable per-cycle timing snapshot for a task or for
// the whole container (entry 0 of a profile vector).
type TaskProfile struct {
	Last           time.Duration
	Max            time.Duration
	Average        time.Duration
	Total          time.Duration
	ElementHandle  uuid.UUID
	Classification ProfileClass
}

// wireSize is the encoded size in bytes: four int64 nanosecond counts, a
// 16-byte handle, and a one-byte classification.
const wireSize = 8*4 + 16 + 1

// EncodeBinary serializes the six fields in order — last, max, average,
// total, handle, classification — as fixed-width little-endian values.
func (p TaskProfile) EncodeBinary() []byte {
	buf := make([]byte, wireSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Last))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(p.Max))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(p.Average))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(p.Total))
	copy(buf[32:48], p.ElementHandle[:])
	buf[48] = byte(p.Classification)
	return buf
}

// DecodeTaskProfile parses the fixed-width encoding produced by
// EncodeBinary.
func DecodeTaskProfile(buf []byte) (TaskProfile, error) {
	if len(buf) != wireSize {
		return TaskProfile{}, fmt.Errorf("task: profile wire size mismatch: got %d want %d", len(buf), wireSize)
	}
	var p TaskProfile
	p.Last = time.Duration(binary.LittleEndian.Uint64(buf[0:8]))
	p.Max = time.Duration(binary.LittleEndian.Uint64(buf[8:16]))
	p.Average = time.Duration(binary.LittleEndian.Uint64(buf[16:24]))
	p.Total = time.Duration(binary.LittleEndian.Uint64(buf[24:32]))
	copy(p.ElementHandle[:], buf[32:48])
	p.Classification = ProfileClass(buf[48])
	return p, nil
}
