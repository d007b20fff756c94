// Package version provides default versions, user-agents etc. for client identification.
package version

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
)

var (
	// This should be updated when client behaviour changes in a way that other peers could care
	// about.
	DefaultBep20Prefix   = GenerateFingerprint("BC", 0, 1, 0, 0)
	DefaultHttpUserAgent string

	// libtorrent/src/http_tracker_connection.cpp
	AnonymousHttpUserAgent = "curl/7.81.0"

	// libtorrent/bindings/c/library.cpp
	// fingerprint fing("LT", lt::version_major, lt::version_minor, lt::version_tiny, 0);
	// libtorrent 2.0.11 = 2025-01-28
	AnonymousBep20Prefix = GenerateFingerprint("LT", 2, 0, 11, 0)
)

// GenerateFingerprint builds an Azureus-style BEP 20 peer ID prefix, like "-LT2100-". Versions
// above 9 are written as letters. Names shorter than 2 characters become "--".
func GenerateFingerprint(name string, major, minor, revision, tag int) string {
	if len(name) < 2 {
		name = "--"
	}
	b := append([]byte{'-'}, name[:2]...)
	for _, v := range [...]int{major, minor, revision, tag} {
		switch {
		case v < 0 || v >= 36:
			panic(fmt.Sprintf("fingerprint version %d out of range", v))
		case v < 10:
			b = append(b, byte('0'+v))
		default:
			b = append(b, byte('A'+v-10))
		}
	}
	return string(append(b, '-'))
}

func init() {
	const longPackageName = "bitcore"
	type Newtype struct{}
	var newtype Newtype
	thisPkg := reflect.TypeOf(newtype).PkgPath()
	moduleVersion := "unknown"
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		thisModule := ""
		// Note that if the main module is the same as this module, we get a version of "(devel)".
		for _, dep := range append(buildInfo.Deps, &buildInfo.Main) {
			if strings.HasPrefix(thisPkg, dep.Path) && len(dep.Path) >= len(thisModule) {
				thisModule = dep.Path
				moduleVersion = dep.Version
			}
		}
	}
	// Per https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/User-Agent#library_and_net_tool_ua_strings
	DefaultHttpUserAgent = fmt.Sprintf("%v/%v", longPackageName, moduleVersion)
}
