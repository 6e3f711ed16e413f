package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/npillmayer/press/memo"
	"github.com/npillmayer/tyse/core/dimen"
)

/*
Remarks:
--------

- Chains are cons lists of frames. A frame is never mutated after Push;
  "popping" a scope simply means the caller keeps using the old chain value.

- The fingerprint of a frame folds the parent's fingerprint, so chain
  fingerprints depend on content and order of all overrides, never on
  allocation identity.
*/

// Chain is a persistent stack of style override frames. The zero Chain is
// the empty chain and resolves every key to its global default.
type Chain struct {
	head *chainFrame
}

type chainFrame struct {
	parent *chainFrame
	props  []KeyValue
	fp     memo.Fingerprint
}

// New returns the empty chain.
func New() Chain {
	return Chain{}
}

// Push returns a new chain with an additional override frame on top. The
// receiver is unchanged and remains valid; sibling subtrees may keep
// sharing it. Pushing no overrides returns the receiver.
func (c Chain) Push(kvs ...KeyValue) Chain {
	if len(kvs) == 0 {
		return c
	}
	props := make([]KeyValue, len(kvs))
	copy(props, kvs)
	f := &chainFrame{parent: c.head, props: props}
	h := memo.NewHasher()
	h.WriteFingerprint(c.Fingerprint())
	for _, kv := range props {
		h.WriteString(string(kv.Key))
		kv.Value.hashInto(h)
	}
	f.fp = h.Sum()
	tracer().Debugf("style chain push, %d overrides, fingerprint %v", len(props), f.fp)
	return Chain{head: f}
}

// Resolve returns the effective value of key at this point of the chain:
// the innermost override wins, the global default backs the empty chain.
// Accumulating keys instead fold integer contributions of all frames,
// outermost first, on top of the key's default.
func (c Chain) Resolve(key Key) Property {
	if IsAccumulating(key) {
		return c.fold(key)
	}
	for f := c.head; f != nil; f = f.parent {
		for i := len(f.props) - 1; i >= 0; i-- {
			if f.props[i].Key == key {
				return f.props[i].Value
			}
		}
	}
	return Default(key)
}

// fold accumulates integer contributions outermost → innermost.
func (c Chain) fold(key Key) Property {
	var sum int64
	if n, ok := Default(key).AsInt(); ok {
		sum = n
	}
	var walk func(f *chainFrame)
	walk = func(f *chainFrame) {
		if f == nil {
			return
		}
		walk(f.parent)
		for _, kv := range f.props {
			if kv.Key == key {
				if n, ok := kv.Value.AsInt(); ok {
					sum += n
				}
			}
		}
	}
	walk(c.head)
	return IntProp(sum)
}

// Length resolves key to a fixed length, falling back to the key's default
// when the resolved property is not a length.
func (c Chain) Length(key Key) dimen.DU {
	if du, ok := c.Resolve(key).AsLength(); ok {
		return du
	}
	du, _ := Default(key).AsLength()
	return du
}

// Text resolves key to a string, falling back to the key's default.
func (c Chain) Text(key Key) string {
	if s, ok := c.Resolve(key).AsString(); ok {
		return s
	}
	s, _ := Default(key).AsString()
	return s
}

// Count resolves an accumulating key to its folded integer value.
func (c Chain) Count(key Key) int {
	n, _ := c.Resolve(key).AsInt()
	return int(n)
}

// Fingerprint identifies the chain's content. Equal chains built
// independently fingerprint equally; the empty chain hashes to zero.
func (c Chain) Fingerprint() memo.Fingerprint {
	if c.head == nil {
		return memo.Zero
	}
	return c.head.fp
}

func (c Chain) String() string {
	var b strings.Builder
	b.WriteString("⟨")
	for f := c.head; f != nil; f = f.parent {
		if f != c.head {
			b.WriteString(" → ")
		}
		for i, kv := range f.props {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(string(kv.Key))
		}
	}
	b.WriteString("⟩")
	return b.String()
}
