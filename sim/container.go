package sim

import (
	"fmt"
	"math"
)

// ContainerRequest is a pending get or put against a Container. It succeeds
// with the requested amount once the level permits.
type ContainerRequest struct {
	ev        *Event
	container *Container
	amount    float64
	put       bool

	done      bool
	cancelled bool
}

// Awaited makes *ContainerRequest an Awaitable.
func (r *ContainerRequest) Awaited() *Event { return r.ev }

// Amount returns the requested amount.
func (r *ContainerRequest) Amount() float64 { return r.amount }

// IsPut distinguishes puts from gets.
func (r *ContainerRequest) IsPut() bool { return r.put }

// Done reports whether the request has been satisfied.
func (r *ContainerRequest) Done() bool { return r.done }

func (r *ContainerRequest) String() string {
	op := "get"
	if r.put {
		op = "put"
	}
	return fmt.Sprintf("%s(%g)@%s", op, r.amount, r.container.name)
}

// Container is a bounded numeric store. Level stays within [0, Capacity];
// gets and puts block until they can be satisfied and are served strictly in
// arrival order within their own queue.
type Container struct {
	env      *Environment
	id       uint64
	name     string
	capacity float64
	level    float64

	gets FIFO[*ContainerRequest]
	puts FIFO[*ContainerRequest]
}

// NewContainer creates a Container holding init out of capacity.
func NewContainer(env *Environment, name string, capacity, init float64) (*Container, error) {
	if env == nil {
		return nil, configErrorf("NewContainer", "nil environment")
	}
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity <= 0 {
		return nil, configErrorf("NewContainer", "%s: capacity must be positive and finite, got %v", name, capacity)
	}
	if math.IsNaN(init) || init < 0 || init > capacity {
		return nil, configErrorf("NewContainer", "%s: init must be in [0, %v], got %v", name, capacity, init)
	}
	env.nextResourceID++
	return &Container{
		env:      env,
		id:       env.nextResourceID,
		name:     name,
		capacity: capacity,
		level:    init,
	}, nil
}

// ID is a stable numeric identifier shared with Resource ids.
func (c *Container) ID() uint64 { return c.id }

// Name returns the container name.
func (c *Container) Name() string { return c.name }

// Level returns the current amount stored.
func (c *Container) Level() float64 { return c.level }

// Capacity returns the maximum amount.
func (c *Container) Capacity() float64 { return c.capacity }

// GetQueueLen returns the number of blocked gets.
func (c *Container) GetQueueLen() int { return c.gets.Len() }

// PutQueueLen returns the number of blocked puts.
func (c *Container) PutQueueLen() int { return c.puts.Len() }

// Get requests amount from the container (0 < amount <= capacity).
func (c *Container) Get(amount float64) *ContainerRequest {
	c.validate("Container.Get", amount)
	req := &ContainerRequest{ev: c.env.newEvent("get"), container: c, amount: amount}
	c.gets.Enqueue(req)
	c.settle()
	return req
}

// Put offers amount to the container (0 < amount <= capacity).
func (c *Container) Put(amount float64) *ContainerRequest {
	c.validate("Container.Put", amount)
	req := &ContainerRequest{ev: c.env.newEvent("put"), container: c, amount: amount, put: true}
	c.puts.Enqueue(req)
	c.settle()
	return req
}

// Cancel withdraws a queued get or put. Requests behind it are re-evaluated.
func (c *Container) Cancel(req *ContainerRequest) error {
	if req == nil || req.container != c {
		return configErrorf("Container.Cancel", "request %v was not issued by %s", req, c.name)
	}
	if req.done {
		return configErrorf("Container.Cancel", "%s was already satisfied", req)
	}
	q := &c.gets
	if req.put {
		q = &c.puts
	}
	if req.cancelled || !q.Remove(req) {
		return configErrorf("Container.Cancel", "%s is not queued", req)
	}
	req.cancelled = true
	c.settle()
	return nil
}

func (c *Container) validate(op string, amount float64) {
	if math.IsNaN(amount) || amount <= 0 || amount > c.capacity {
		panic(configErrorf(op, "%s: amount must be in (0, %v], got %v", c.name, c.capacity, amount))
	}
}

// settle serves queue heads until neither queue can make progress. Each
// queue stops at its first unsatisfiable request; later, smaller requests
// never skip ahead.
func (c *Container) settle() {
	for {
		progressed := false
		for {
			head, ok := c.gets.Peek()
			if !ok || head.amount > c.level {
				break
			}
			c.gets.Dequeue()
			c.level -= head.amount
			c.complete(head)
			progressed = true
		}
		for {
			head, ok := c.puts.Peek()
			if !ok || c.level+head.amount > c.capacity {
				break
			}
			c.puts.Dequeue()
			c.level += head.amount
			c.complete(head)
			progressed = true
		}
		if !progressed {
			return
		}
	}
}

func (c *Container) complete(req *ContainerRequest) {
	req.done = true
	if err := req.ev.Succeed(req.amount); err != nil {
		panic(fmt.Sprintf("Container.settle: %v", err))
	}
}
