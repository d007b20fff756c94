// Package envx reads typed settings from environment variables. Each reader takes a fallback and
// a list of keys; the first key holding a value that parses wins.
package envx

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anacrolix/log"
	"github.com/pkg/errors"
)

// Int parses a base 10 integer that must fit in T.
func Int[T ~int | ~int64 | ~uint32](fallback T, keys ...string) T {
	return first(fallback, func(s string) (T, error) {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil && int64(T(i)) != i {
			err = strconv.ErrRange
		}
		return T(i), errors.Wrapf(err, "bad integer %q", s)
	}, keys...)
}

// Duration parses anything time.ParseDuration accepts. Bare numbers have no unit and are rejected.
func Duration(fallback time.Duration, keys ...string) time.Duration {
	return first(fallback, func(s string) (time.Duration, error) {
		d, err := time.ParseDuration(s)
		return d, errors.Wrapf(err, "bad duration %q", s)
	}, keys...)
}

func String(fallback string, keys ...string) string {
	return first(fallback, func(s string) (string, error) {
		return s, nil
	}, keys...)
}

// Blank values are skipped. Unparseable ones are logged and skipped.
func first[T any](fallback T, parse func(string) (T, error), keys ...string) T {
	for _, k := range keys {
		s := strings.TrimSpace(os.Getenv(k))
		if s == "" {
			continue
		}
		v, err := parse(s)
		if err != nil {
			log.Levelf(log.Warning, "ignoring %s: %v", k, err)
			continue
		}
		return v
	}
	return fallback
}
