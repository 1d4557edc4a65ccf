// internal/hook/chain.go
package hook

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyRegistered is returned when a second consumer tries to register.
	ErrAlreadyRegistered = errors.New("hook: a consumer is already registered")
	// ErrNotRegistered is returned when unregistering a stale or foreign registration.
	ErrNotRegistered = errors.New("hook: registration is not active")
)

// Consumer decides whether an event is swallowed.
type Consumer interface {
	Consume(ev schemas.InputEvent) bool
}

// ConsumerFunc adapts a plain function to Consumer.
type ConsumerFunc func(ev schemas.InputEvent) bool

func (f ConsumerFunc) Consume(ev schemas.InputEvent) bool { return f(ev) }

// Next receives every event the consumer let through.
type Next func(ev schemas.InputEvent)

// Registration identifies one installed consumer.
type Registration struct {
	ID uuid.UUID
}

// Chain is the single registration point for the input stream of one execution
// context. At most one consumer is installed at a time.
type Chain struct {
	logger *zap.Logger
	next   Next

	mu       sync.RWMutex
	reg      Registration
	consumer Consumer
}

// NewChain creates a chain that forwards passed-through events to next. A nil next
// drops them; backends whose OS chain forwards on its own use that.
func NewChain(next Next, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		logger: logger.Named("hook"),
		next:   next,
	}
}

// Register installs consumer as the sole consumer of the chain.
func (c *Chain) Register(consumer Consumer) (Registration, error) {
	if consumer == nil {
		return Registration{}, fmt.Errorf("hook: nil consumer")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumer != nil {
		return Registration{}, fmt.Errorf("%w (id %s)", ErrAlreadyRegistered, c.reg.ID)
	}

	c.reg = Registration{ID: uuid.New()}
	c.consumer = consumer
	c.logger.Debug("Consumer registered", zap.String("registration_id", c.reg.ID.String()))
	return c.reg, nil
}

// Unregister removes the consumer installed by reg.
func (c *Chain) Unregister(reg Registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumer == nil || c.reg.ID != reg.ID {
		return fmt.Errorf("%w (id %s)", ErrNotRegistered, reg.ID)
	}

	c.consumer = nil
	c.reg = Registration{}
	c.logger.Debug("Consumer unregistered", zap.String("registration_id", reg.ID.String()))
	return nil
}

// Registered reports whether a consumer is installed.
func (c *Chain) Registered() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.consumer != nil
}

// Deliver offers ev to the consumer and reports whether it was swallowed. Pointer
// moves bypass the consumer. Anything not swallowed goes to the next link.
func (c *Chain) Deliver(ev schemas.InputEvent) bool {
	if m, ok := ev.(schemas.MouseEventData); !ok || m.Type != schemas.MouseMove {
		c.mu.RLock()
		consumer := c.consumer
		c.mu.RUnlock()

		if consumer != nil && consumer.Consume(ev) {
			return true
		}
	}

	if c.next != nil {
		c.next(ev)
	}
	return false
}
