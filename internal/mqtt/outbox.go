package mqtt

import "log"

// message is a serialized MQTT publish kept for replay after reconnection.
type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox keeps the most recent messages while the broker is unreachable.
// When full, the oldest message is overwritten. Not safe for concurrent use.
type outbox struct {
	msgs    []message
	next    int // slot for the next add
	n       int
	dropped int
}

func newOutbox(size int) *outbox {
	return &outbox{msgs: make([]message, size)}
}

func (o *outbox) add(m message) {
	if o.n == len(o.msgs) {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", len(o.msgs))
		}
		o.dropped++
	} else {
		o.n++
	}
	o.msgs[o.next] = m
	o.next = (o.next + 1) % len(o.msgs)
}

// drain returns buffered messages oldest first and empties the outbox.
func (o *outbox) drain() []message {
	if o.n == 0 {
		return nil
	}
	out := make([]message, 0, o.n)
	first := (o.next - o.n + len(o.msgs)) % len(o.msgs)
	for i := 0; i < o.n; i++ {
		out = append(out, o.msgs[(first+i)%len(o.msgs)])
	}
	o.next, o.n, o.dropped = 0, 0, 0
	return out
}

func (o *outbox) len() int {
	return o.n
}
