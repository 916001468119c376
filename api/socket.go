// File: api/socket.go
// Author: momentics <momentics@gmail.com>
//
// Completion-based socket contract consumed by the send path.

package api

// AsyncSocket is a connected stream socket with completion-based sends.
type AsyncSocket interface {
	// SendAsync begins sending the region(s) described by req.
	//
	// It returns false when the operation completed synchronously: the
	// result is already stored in req and req.Completed is NOT invoked.
	// It returns true when the operation is pending: the socket takes
	// req.Ticket() before returning and calls Complete on it exactly once
	// later, possibly on another goroutine.
	SendAsync(req *SendRequest) (pending bool)

	// Close shuts the socket down. A pending send completes with an error.
	Close() error
}

// SendRequest is the reusable OS-level completion-request object.
// Exactly one of Buffer and BufferList is set for an issued send.
type SendRequest struct {
	// Buffer is the single region of a fast-path send.
	Buffer ArraySegment

	// BufferList holds the regions of a scatter/gather send in order.
	BufferList []ArraySegment

	// BytesTransferred is set by the socket on completion.
	BytesTransferred int

	// Err is set by the socket on completion; nil means success.
	Err error

	// UserToken is opaque to the socket.
	UserToken any

	// Generation is advanced by the issuer before every SendAsync.
	Generation uint64

	// Completed is invoked for pending operations with the generation the
	// operation was issued under.
	Completed func(req *SendRequest, gen uint64)
}

// Ticket identifies one issued operation of a reused request.
type Ticket struct {
	Req *SendRequest
	Gen uint64
}

// Ticket captures the request together with its current generation.
func (r *SendRequest) Ticket() Ticket {
	return Ticket{Req: r, Gen: r.Generation}
}

// Complete delivers the completion of the operation t identifies.
func (t Ticket) Complete() {
	t.Req.Completed(t.Req, t.Gen)
}

// IsZero reports whether t refers to no request.
func (t Ticket) IsZero() bool { return t.Req == nil }

// SetBuffer points the request at a single region.
func (r *SendRequest) SetBuffer(seg ArraySegment) {
	r.Buffer = seg
}

// ClearBuffer drops the single-region reference.
func (r *SendRequest) ClearBuffer() {
	r.Buffer = ArraySegment{}
}

// Count returns the number of bytes the request asks to send.
func (r *SendRequest) Count() int {
	if r.BufferList != nil {
		n := 0
		for i := range r.BufferList {
			n += r.BufferList[i].Count
		}
		return n
	}
	return r.Buffer.Count
}

// SetResult records the completion outcome.
func (r *SendRequest) SetResult(n int, err error) {
	r.BytesTransferred = n
	r.Err = err
}

// Reset clears the outcome of the previous operation.
func (r *SendRequest) Reset() {
	r.BytesTransferred = 0
	r.Err = nil
}
