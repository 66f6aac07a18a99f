/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gtc

import (
	"fmt"
	"time"
)

// Event types for encdesc/hcr encoding and decoding steps. The encdesc
// and hcr encoders and decoders do not create or emit Events themselves.
const (
	EVT_ANALYSIS_START    = 0 // Field/alphabet analysis starts
	EVT_ANALYSIS_END      = 1 // Field/alphabet analysis ends
	EVT_ENCODE_START       = 2 // Encoding of a description/read stream starts
	EVT_ENCODE_END         = 3 // Encoding of a description/read stream ends
	EVT_DECODE_START       = 4 // Decoding of a description/read stream starts
	EVT_DECODE_END         = 5 // Decoding of a description/read stream ends
	EVT_SAMPLE_WRITTEN     = 6 // A random access sample was recorded
	EVT_HEADER_WRITTEN     = 7 // The fixed binary header was written
	EVT_HEADER_DECODED     = 8 // The fixed binary header was parsed back

	EVT_HASH_NONE   = 0
	EVT_HASH_32BITS = 32
	EVT_HASH_64BITS = 64
)

// Event is a compression/decompression lifecycle event. Kept deliberately
// close to the teacher's Event shape (type/id/size/hash/time/msg) so that
// callers already familiar with one Listener implementation can reuse it
// for the other; package gtc/log provides SlogListener, which forwards
// each event handed to it to log/slog at Debug or Info level.
type Event struct {
	eventType int
	id        int
	size      int64
	hash      uint64
	hashType  int
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message.
func NewEventFromString(evtType, id int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, id: id, size: 0, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance with size and hash info.
// Returns nil if hashType is not in { EVT_HASH_NONE, EVT_HASH_32BITS, EVT_HASH_64BITS }.
func NewEvent(evtType, id int, size int64, hash uint64, hashType int, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	if hashType != EVT_HASH_NONE && hashType != EVT_HASH_32BITS && hashType != EVT_HASH_64BITS {
		return nil
	}

	return &Event{eventType: evtType, id: id, size: size, hash: hash,
		hashType: hashType, eventTime: evtTime}
}

// Type returns the event type.
func (this *Event) Type() int {
	return this.eventType
}

// ID returns the id info (e.g. field index, or -1 for stream-wide events).
func (this *Event) ID() int {
	return this.id
}

// Time returns the time info.
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info (bits written, samples taken, etc., depending on type).
func (this *Event) Size() int64 {
	return this.size
}

// Hash returns the hash info.
func (this *Event) Hash() uint64 {
	return this.hash
}

// HashType returns EVT_HASH_NONE, EVT_HASH_32BITS or EVT_HASH_64BITS.
func (this *Event) HashType() int {
	return this.hashType
}

// String returns a string representation of this event.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	hash := ""
	t := ""
	id := ""

	if this.hashType != EVT_HASH_NONE {
		hash = fmt.Sprintf(", \"hash\": %x", this.hash)
	}

	if this.id >= 0 {
		id = fmt.Sprintf(", \"id\": %d", this.id)
	}

	switch this.eventType {
	case EVT_ANALYSIS_START:
		t = "ANALYSIS_START"
	case EVT_ANALYSIS_END:
		t = "ANALYSIS_END"
	case EVT_ENCODE_START:
		t = "ENCODE_START"
	case EVT_ENCODE_END:
		t = "ENCODE_END"
	case EVT_DECODE_START:
		t = "DECODE_START"
	case EVT_DECODE_END:
		t = "DECODE_END"
	case EVT_SAMPLE_WRITTEN:
		t = "SAMPLE_WRITTEN"
	case EVT_HEADER_WRITTEN:
		t = "HEADER_WRITTEN"
	case EVT_HEADER_DECODED:
		t = "HEADER_DECODED"
	}

	return fmt.Sprintf("{ \"type\":\"%s\"%s, \"size\":%d, \"time\":%d%s }", t, id, this.size,
		this.eventTime.UnixNano()/1000000, hash)
}

// Listener is an interface implemented by event processors.
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}
