package metainfo

import (
	"strconv"
)

// The input isn't a single well-formed bencode value.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "metainfo: decoding bencode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type BadURLError struct {
	URL string
	Err error
}

func (e *BadURLError) Error() string {
	if e.Err == nil {
		return "metainfo: announce url " + strconv.Quote(e.URL) + " is not absolute"
	}
	return "metainfo: bad announce url " + strconv.Quote(e.URL) + ": " + e.Err.Error()
}

func (e *BadURLError) Unwrap() error {
	return e.Err
}

type BadPathError struct {
	Component string
	Reason    string
}

func (e *BadPathError) Error() string {
	if e.Component == "" {
		return "metainfo: bad file path: " + e.Reason
	}
	return "metainfo: bad file path component " + strconv.Quote(e.Component) + ": " + e.Reason
}

// Locates an error within the files list.
type FileError struct {
	Index int
	Err   error
}

func (e *FileError) Error() string {
	return "metainfo: files[" + strconv.Itoa(e.Index) + "]: " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}
