package scopes

import (
	"os"

	"github.com/arthur-debert/testscope/pkg/errors"
)

// VarPatch temporarily replaces the value behind a pointer, typically a
// package-level variable such as os.Stdout or os.Args. The previous value is
// recorded on Enter and written back on Exit.
type VarPatch[T any] struct {
	target   *T
	value    T
	original T
}

// PatchVar returns a scope that sets *target to value for its duration.
func PatchVar[T any](target *T, value T) *VarPatch[T] {
	return &VarPatch[T]{target: target, value: value}
}

// Enter records the current value and installs the replacement.
func (p *VarPatch[T]) Enter() error {
	p.original = *p.target
	*p.target = p.value
	return nil
}

// Exit restores the value observed at Enter time.
func (p *VarPatch[T]) Exit() error {
	*p.target = p.original
	return nil
}

// Mapping is the keyed-entry protocol ItemPatch restores against. The bool
// returned by Lookup distinguishes a key that is absent from one holding the
// zero value, so restoration never conflates the two.
type Mapping[K comparable, V any] interface {
	Lookup(key K) (V, bool)
	Store(key K, value V) error
	Delete(key K) error
}

// goMap adapts a plain Go map to the Mapping interface.
type goMap[K comparable, V any] map[K]V

func (m goMap[K, V]) Lookup(key K) (V, bool) {
	v, ok := m[key]
	return v, ok
}

func (m goMap[K, V]) Store(key K, value V) error {
	m[key] = value
	return nil
}

func (m goMap[K, V]) Delete(key K) error {
	delete(m, key)
	return nil
}

// MapOf wraps a Go map so it can be patched with ItemPatch. The map is
// mutated in place.
func MapOf[K comparable, V any](m map[K]V) Mapping[K, V] {
	return goMap[K, V](m)
}

// environ exposes the process environment as a Mapping.
type environ struct{}

func (environ) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (environ) Store(key, value string) error {
	if err := os.Setenv(key, value); err != nil {
		return errors.Wrapf(err, errors.ErrEnvWrite, "failed to set environment variable %s", key)
	}
	return nil
}

func (environ) Delete(key string) error {
	if err := os.Unsetenv(key); err != nil {
		return errors.Wrapf(err, errors.ErrEnvWrite, "failed to unset environment variable %s", key)
	}
	return nil
}

// Environ returns the process environment as a Mapping, suitable for
// PatchItem. Only the patched variable is touched; all other entries are
// left alone.
func Environ() Mapping[string, string] {
	return environ{}
}

// ItemPatch temporarily replaces one keyed entry in a Mapping. On Exit the
// entry is restored to its previous value, or deleted when the key was absent
// before patching.
type ItemPatch[K comparable, V any] struct {
	mapping  Mapping[K, V]
	key      K
	value    V
	original V
	existed  bool
}

// PatchItem returns a scope that sets mapping[key] to value for its duration.
func PatchItem[K comparable, V any](mapping Mapping[K, V], key K, value V) *ItemPatch[K, V] {
	return &ItemPatch[K, V]{mapping: mapping, key: key, value: value}
}

// Value reports the replacement the patch installs. Composed scopes that only
// know the replacement at Enter time adjust it with SetValue before entering.
func (p *ItemPatch[K, V]) Value() V {
	return p.value
}

// SetValue changes the replacement value. It has no effect after Enter.
func (p *ItemPatch[K, V]) SetValue(value V) {
	p.value = value
}

// Enter records the current entry (or its absence) and installs the
// replacement.
func (p *ItemPatch[K, V]) Enter() error {
	p.original, p.existed = p.mapping.Lookup(p.key)
	return p.mapping.Store(p.key, p.value)
}

// Exit restores the entry to its original value, or deletes it when the key
// did not exist before patching.
func (p *ItemPatch[K, V]) Exit() error {
	if !p.existed {
		return p.mapping.Delete(p.key)
	}
	return p.mapping.Store(p.key, p.original)
}
