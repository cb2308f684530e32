package lifecycle

import (
	"fmt"
	"reflect"
)

type constError string

const (
	// ErrNotFound is returned by [Cache.Lookup] when the key
	// has no entry, or its entry was evicted or reclaimed.
	ErrNotFound = constError("key not found")
	// ErrInvalidCapacity may be returned from [New].
	ErrInvalidCapacity = constError("invalid capacity")
	// ErrInvalidPolicy may be returned from [New].
	ErrInvalidPolicy = constError("invalid policy")
	// ErrNilKey is returned by [Cache.Insert] when passed a nil key.
	ErrNilKey = constError("nil key")
	// ErrInvalidKey may be returned from [New]
	// when the key type cannot be tracked weakly.
	ErrInvalidKey = constError("invalid key type")
)

func (errStr constError) Error() string { return string(errStr) }

func minCapacityError(capacity int) error {
	return fmt.Errorf(
		"%w: must be >=%d but %d was requested",
		ErrInvalidCapacity, MinimumCapacity, capacity)
}

func weakKeyError(typ reflect.Type) error {
	return fmt.Errorf(
		"%w: %s is %d bytes without pointers but weak keys must be >=%d bytes or contain a pointer",
		ErrInvalidKey, typ, typ.Size(), MinimumWeakKeySize)
}

func policyError(policy Policy) error {
	return fmt.Errorf(
		"%w: %d is not one of %s or %s",
		ErrInvalidPolicy, policy, Weak, Capacity)
}
