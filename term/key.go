package term

import "strings"

// Key is a lexicographically-comparable canonical key for a Term. Two terms
// with equal keys are the same canonical term (§3, invariant 5); key
// comparison, not structural equality, is the equality predicate used
// throughout the core.
//
// Keys are built from a fixed per-variant tag integer, a discriminator
// (name or index), and the tuple of child keys (§3). Rather than modeling
// that tuple as a recursive struct (awkward to use as a Go map key), Key is
// a flat string encoding of the same information: unambiguous because every
// field is length-prefixed, and directly comparable with the built-in `<`
// and usable as a map key without a custom Less function.
type Key string

// Kind tags the variant of a Term, mirroring the fixed per-variant integer
// the reference embeds in every key (§3).
type Kind int

const (
	KindOne Kind = iota
	KindVar
	KindIVar
	KindUVar
	KindAdd
	KindMul
	KindAbs
	KindMin
	KindApp
)

func (k Kind) String() string {
	switch k {
	case KindOne:
		return "One"
	case KindVar:
		return "Var"
	case KindIVar:
		return "IVar"
	case KindUVar:
		return "UVar"
	case KindAdd:
		return "Add"
	case KindMul:
		return "Mul"
	case KindAbs:
		return "Abs"
	case KindMin:
		return "Min"
	case KindApp:
		return "App"
	default:
		return "Unknown"
	}
}

// buildKey assembles a Key from a tag, a discriminator string, and the keys
// of any children. Each field is length-prefixed so the encoding is
// injective: no ambiguity between e.g. a 2-arg App named "fo" and a 1-arg
// App named "foo".
func buildKey(tag Kind, disc string, children ...Key) Key {
	var b strings.Builder
	writeField(&b, int(tag))
	writeField(&b, disc)
	for _, c := range children {
		writeField(&b, string(c))
	}
	return Key(b.String())
}

func writeField(b *strings.Builder, v interface{}) {
	var s string
	switch x := v.(type) {
	case int:
		s = itoa(x)
	case string:
		s = x
	}
	b.WriteString(itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		digits[i] = '-'
	}
	return string(digits[i:])
}

// scaledKey builds the key for a Scaled (coeff, term) pair: (term.key, coeff)
// per §3.
func scaledKey(coeff Rational, t Key) Key {
	var b strings.Builder
	writeField(&b, string(t))
	writeField(&b, coeff.String())
	return Key(b.String())
}
