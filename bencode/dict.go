package bencode

import (
	"strconv"
)

// A required dictionary key is absent.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return "bencode: missing key " + strconv.Quote(e.Key)
}

// The value for Key couldn't be interpreted as required. Key is empty for a top-level value.
type ValueError struct {
	Key string
	Err error
}

func (e *ValueError) Error() string {
	if e.Key == "" {
		return "bencode: top-level value: " + e.Err.Error()
	}
	return "bencode: value for key " + strconv.Quote(e.Key) + ": " + e.Err.Error()
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

func (d Dict) Lookup(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Dict) get(key string) (Value, error) {
	v, ok := d[key]
	if !ok {
		return Value{}, &MissingKeyError{Key: key}
	}
	return v, nil
}

func getAs[T any](d Dict, key string, as func(Value) (T, error)) (ret T, err error) {
	v, err := d.get(key)
	if err != nil {
		return
	}
	ret, err = as(v)
	if err != nil {
		err = &ValueError{Key: key, Err: err}
	}
	return
}

func (d Dict) Bytes(key string) ([]byte, error) {
	return getAs(d, key, Value.AsBytes)
}

// Text returns the UTF-8 byte string for key.
func (d Dict) Text(key string) (string, error) {
	return getAs(d, key, Value.AsString)
}

func (d Dict) Int(key string) (int64, error) {
	return getAs(d, key, Value.AsInt)
}

func (d Dict) List(key string) ([]Value, error) {
	return getAs(d, key, Value.AsList)
}

func (d Dict) Dict(key string) (Dict, error) {
	return getAs(d, key, Value.AsDict)
}
