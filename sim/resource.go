package sim

import "fmt"

// Request is a ticket for one slot of a Resource. It is pending while
// queued and succeeds (with itself as value) when granted.
type Request struct {
	ev       *Event
	resource *Resource

	granted   bool
	released  bool
	cancelled bool
}

// Awaited makes *Request an Awaitable.
func (r *Request) Awaited() *Event { return r.ev }

// Resource returns the resource the request was issued against.
func (r *Request) Resource() *Resource { return r.resource }

// Granted reports whether the request currently holds (or held) a slot.
func (r *Request) Granted() bool { return r.granted }

func (r *Request) String() string {
	return fmt.Sprintf("%s@%s", r.ev, r.resource.name)
}

// Resource is a bounded mutual-exclusion construct: at most Capacity
// requests hold it at once and queued requests are granted strictly in
// arrival order. No deadlock avoidance is attempted.
type Resource struct {
	env      *Environment
	id       uint64
	name     string
	capacity int

	users []*Request
	queue FIFO[*Request]
}

// NewResource creates a Resource with the given capacity (must be > 0).
func NewResource(env *Environment, name string, capacity int) (*Resource, error) {
	if env == nil {
		return nil, configErrorf("NewResource", "nil environment")
	}
	if capacity <= 0 {
		return nil, configErrorf("NewResource", "%s: capacity must be positive, got %d", name, capacity)
	}
	env.nextResourceID++
	return &Resource{
		env:      env,
		id:       env.nextResourceID,
		name:     name,
		capacity: capacity,
	}, nil
}

// ID is a stable numeric identifier in creation order. Models use it to
// impose a deterministic acquisition order across resources.
func (r *Resource) ID() uint64 { return r.id }

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the maximum number of concurrent holders.
func (r *Resource) Capacity() int { return r.capacity }

// Count returns the number of granted, unreleased requests.
func (r *Resource) Count() int { return len(r.users) }

// QueueLen returns the number of requests waiting for a slot.
func (r *Resource) QueueLen() int { return r.queue.Len() }

// Request enqueues a new request and grants it immediately if a slot is free
// and nobody is queued ahead of it.
func (r *Resource) Request() *Request {
	req := &Request{ev: r.env.newEvent("request"), resource: r}
	r.queue.Enqueue(req)
	r.grant()
	return req
}

// Release returns the slot held by req and grants queued requests in FIFO
// order while capacity allows.
func (r *Resource) Release(req *Request) error {
	if req == nil || req.resource != r {
		return configErrorf("Resource.Release", "request %v was not issued by %s", req, r.name)
	}
	if req.released {
		return configErrorf("Resource.Release", "%s already released", req)
	}
	if !req.granted {
		return configErrorf("Resource.Release", "%s was never granted; Cancel withdraws a queued request", req)
	}
	for i, u := range r.users {
		if u == req {
			r.users = append(r.users[:i], r.users[i+1:]...)
			break
		}
	}
	req.released = true
	r.grant()
	return nil
}

// Cancel withdraws a request that is still queued. Its event stays pending.
func (r *Resource) Cancel(req *Request) error {
	if req == nil || req.resource != r {
		return configErrorf("Resource.Cancel", "request %v was not issued by %s", req, r.name)
	}
	if req.granted {
		return configErrorf("Resource.Cancel", "%s was granted; Release returns the slot", req)
	}
	if req.cancelled || !r.queue.Remove(req) {
		return configErrorf("Resource.Cancel", "%s is not queued", req)
	}
	req.cancelled = true
	return nil
}

func (r *Resource) grant() {
	for len(r.users) < r.capacity {
		next, ok := r.queue.Dequeue()
		if !ok {
			return
		}
		next.granted = true
		r.users = append(r.users, next)
		if err := next.ev.Succeed(next); err != nil {
			panic(fmt.Sprintf("Resource.grant: %v", err))
		}
	}
}
