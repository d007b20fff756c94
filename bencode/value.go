package bencode

import (
	"fmt"
	"unicode/utf8"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBytes
	KindInt
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Dict is a decoded dictionary. Keys are unique. Keys of decoded dictionaries share memory with
// the input buffer.
type Dict map[string]Value

// Value is a bencode value: a byte string, an integer, a list or a dictionary. The zero Value is
// invalid. Values returned by the decoder borrow from the input buffer, which must not be modified
// while they are in use.
type Value struct {
	kind Kind
	raw  []byte
	b    []byte
	i    int64
	list []Value
	dict Dict
}

func Bytes(b []byte) Value {
	return Value{kind: KindBytes, b: b}
}

func String(s string) Value {
	return Bytes([]byte(s))
}

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func List(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindList, list: vs}
}

func NewDict(d Dict) Value {
	if d == nil {
		d = Dict{}
	}
	return Value{kind: KindDict, dict: d}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Raw returns the encoded form of the value as it appeared in the decoded input. It's nil for
// constructed values.
func (v Value) Raw() []byte {
	return v.raw
}

func (v Value) wrongType(expected Kind) error {
	return &WrongTypeError{Found: v.kind, Expected: expected}
}

func (v Value) AsBytes() ([]byte, error) {
	if v.kind != KindBytes {
		return nil, v.wrongType(KindBytes)
	}
	return v.b, nil
}

// AsString returns the byte string as text. The result shares memory with the byte string.
func (v Value) AsString() (string, error) {
	b, err := v.AsBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return bytesAsString(b), nil
}

func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, v.wrongType(KindInt)
	}
	return v.i, nil
}

func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, v.wrongType(KindList)
	}
	return v.list, nil
}

func (v Value) AsDict() (Dict, error) {
	if v.kind != KindDict {
		return nil, v.wrongType(KindDict)
	}
	return v.dict, nil
}

// TakeDict returns the dictionary and leaves v as the zero (invalid) Value, so the caller holds the
// only reference to the map.
func (v *Value) TakeDict() (Dict, error) {
	d, err := v.AsDict()
	if err != nil {
		return nil, err
	}
	*v = Value{}
	return d, nil
}

// Equal reports whether two values have the same variant and contents. Raw spans are ignored.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBytes:
		return string(v.b) == string(other.b)
	case KindInt:
		return v.i == other.i
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.dict) != len(other.dict) {
			return false
		}
		for k, a := range v.dict {
			b, ok := other.dict[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBytes:
		return fmt.Sprintf("%q", v.b)
	case KindInt:
		return fmt.Sprint(v.i)
	case KindList:
		return fmt.Sprint(v.list)
	case KindDict:
		return fmt.Sprint(map[string]Value(v.dict))
	default:
		return "<invalid>"
	}
}
