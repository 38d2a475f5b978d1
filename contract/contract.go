package contract

import (
	"fmt"
	"reflect"
	"sync"

	"go.jacobcolvin.com/jsonlink/scan"
)

// Contract is the contract for one target type: an ordered member list, a
// constructor assembling the target from parsed member values, and a
// to-data adaptor producing the in-order values for serialization.
//
// Contracts are immutable program-wide data; register them during package
// initialization with [Register] or [MustRegister].
type Contract struct {
	// Members are the mapped JSON object members, in declaration order.
	Members []Member

	// Ordered selects the ordered-member representation: the value is a
	// JSON array holding the member values positionally instead of an
	// object.
	Ordered bool

	// New builds the target value from parsed member values, one per
	// member in declaration order.
	New func(vs []any) (any, error)

	// Data is the inverse adaptor: it produces the in-order member values
	// of an existing target value.
	Data func(v any) []any
}

// validate rejects malformed contracts at registration time.
func (c *Contract) validate(t reflect.Type) error {
	if c.New == nil {
		return fmt.Errorf("%w: contract for %s has no constructor", scan.ErrContractMissing, t)
	}

	seen := make(map[string]bool, len(c.Members))

	for _, m := range c.Members {
		if m.Name == "" {
			return fmt.Errorf("%w: contract for %s has an unnamed member", scan.ErrContractMissing, t)
		}

		if seen[m.Name] {
			return fmt.Errorf("%w: contract for %s declares member %q twice", scan.ErrContractMissing, t, m.Name)
		}

		seen[m.Name] = true
	}

	return nil
}

var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]*Contract)
)

// Register associates T with its class contract. The registry is expected
// to be populated during program initialization and is read-only
// afterwards.
func Register[T any](c *Contract) error {
	t := reflect.TypeFor[T]()

	err := c.validate(t)
	if err != nil {
		return err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[t]; exists {
		return fmt.Errorf("%w: duplicate contract for %s", scan.ErrContractMissing, t)
	}

	registry[t] = c

	return nil
}

// MustRegister is [Register] panicking on error, for use in init blocks.
func MustRegister[T any](c *Contract) {
	err := Register[T](c)
	if err != nil {
		panic(err)
	}
}

// Lookup returns the contract registered for t. Unmapped types yield an
// error naming the type, wrapping [scan.ErrContractMissing].
func Lookup(t reflect.Type) (*Contract, error) {
	registryMu.RLock()
	c, ok := registry[t]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: no contract registered for %s", scan.ErrContractMissing, t)
	}

	return c, nil
}

// For returns the contract registered for T.
func For[T any]() (*Contract, error) {
	return Lookup(reflect.TypeFor[T]())
}
