package libcurl

import "time"

// WriteFunc is the native write callback signature: it receives one
// chunk of response body and returns false to abort the transfer
// (mirrors the teacher's curl.OPT_WRITEFUNCTION, which takes
// func([]byte, interface{}) bool).
type WriteFunc func(chunk []byte) bool

// HeaderFunc is the native header callback signature: it receives one
// raw header line (including the trailing CRLF) and returns false to
// abort the transfer.
type HeaderFunc func(line []byte) bool

// ReadFunc is the native upload read callback signature: it fills buf
// and returns the number of bytes written plus whether the callback is
// pausing the send side because no data is available yet (the
// producer has not filled its buffer). A true pause with n==0 is the
// signal libcurl's CURL_READFUNC_PAUSE return value represents.
type ReadFunc func(buf []byte) (n int, pause bool)

// SeekFunc is the native upload seek callback signature: offset/whence
// follow io.Seeker conventions. It returns an error only when the
// underlying stream cannot seek (spec.md §4.2 "Seek requests... succeed
// only for sized streams").
type SeekFunc func(offset int64, whence int) error

// Pause bitmask values, mirroring libcurl's CURLPAUSE_RECV/SEND.
const (
	PauseRecv = 1 << iota
	PauseSend
)

// EasyHandle is the capability set this backend needs from a single
// transfer. The production implementation (curlapi.go) wraps a
// *curl.CURL from github.com/BridgeSenseDev/go-curl-impersonate; tests
// use a fake (context_test.go) that simulates a transfer's callbacks
// directly, without cgo.
type EasyHandle interface {
	SetURL(url string)
	SetMethod(method string, customVerb string)
	SetRequestHeaders(headers []string)
	// SetUploadSize declares the upload body's length; -1 means
	// unsized, which enables chunked transfer encoding.
	SetUploadSize(size int64)
	SetWriteFunc(WriteFunc)
	SetHeaderFunc(HeaderFunc)
	SetReadFunc(ReadFunc)
	SetSeekFunc(SeekFunc)
	SetTimeout(d time.Duration)
	SetFollowRedirects(bool)
	SetUseDefaultProxy(bool)
	SetIgnoreCertificateErrors(bool)
	SetShare(ShareHandle)
	SetImpersonateTarget(target string, useDefaultHeaders bool)

	// Pause applies the given bitmask (PauseRecv | PauseSend) to the
	// transfer.
	Pause(bitmask int) error
	// Unpause resumes whatever the bitmask identifies; implementations
	// treat this as Pause with the bit cleared.
	Unpause(bitmask int) error

	// StatusCode and ContentLength are only meaningful once headers
	// have finished arriving.
	StatusCode() (int, error)
	ContentLength() (int64, error)

	// Reset restores default options so the handle can be returned to
	// a connection-reuse pool (teacher's returnCurlHandle idiom).
	Reset()
	Cleanup()
}

// MultiHandle is the capability set this backend needs from libcurl's
// multi interface.
type MultiHandle interface {
	AddHandle(e EasyHandle) error
	RemoveHandle(e EasyHandle) error
	// Perform drives all active transfers once and returns the number
	// still running.
	Perform() (running int, err error)
	// Poll blocks up to timeout waiting for socket activity or a
	// Wakeup call, whichever comes first.
	Poll(timeout time.Duration) error
	// NextMessage pops one completed-transfer notification, or ok==false
	// if none is pending.
	NextMessage() (e EasyHandle, result error, ok bool)
	// Wakeup interrupts a blocked Poll call (curl_multi_wakeup); used
	// to notify the loop that a new task has been enqueued.
	Wakeup() error
	Cleanup()
}

// ShareHandle multiplexes cookies/DNS/TLS state across the easy handles
// of one client (spec.md §4.2 "Multi-request sharing").
type ShareHandle interface {
	Cleanup()
}
