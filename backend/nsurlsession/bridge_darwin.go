//go:build darwin

package nsurlsession

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation
#include <stdlib.h>
#include "bridge_darwin.h"
*/
import "C"

import (
	"unsafe"

	"github.com/nyquest-go/nyquest/internal/core"
)

// createSession wraps nyquest_create_session, translating the frozen
// ClientOptions into the C struct bridge_darwin.m reads.
func createSession(opts core.ClientOptions) unsafe.Pointer {
	var uaPtr *C.char
	if opts.UserAgent != "" {
		uaPtr = C.CString(opts.UserAgent)
		defer C.free(unsafe.Pointer(uaPtr))
	}
	cfg := C.nyquest_session_config{
		user_agent:         uaPtr,
		timeout_ms:         C.longlong(opts.RequestTimeout),
		use_cookies:        boolToC(opts.UseCookies),
		ignore_cert_errors: boolToC(opts.IgnoreCertificateErrors),
		follow_redirects:   boolToC(opts.FollowRedirects),
	}
	return C.nyquest_create_session(cfg)
}

func closeSession(session unsafe.Pointer) {
	C.nyquest_close_session(session)
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// sendRequest wraps nyquest_send_request. bodyBytes may be nil for a
// bodyless or streamed request (isStream controls which).
func sendRequest(session unsafe.Pointer, token uintptr, method, url, headerBlock string, bodyBytes []byte, isStream bool) unsafe.Pointer {
	methodC := C.CString(method)
	defer C.free(unsafe.Pointer(methodC))
	urlC := C.CString(url)
	defer C.free(unsafe.Pointer(urlC))
	var headerC *C.char
	if headerBlock != "" {
		headerC = C.CString(headerBlock)
		defer C.free(unsafe.Pointer(headerC))
	}
	var bodyPtr *C.uchar
	if len(bodyBytes) > 0 {
		bodyPtr = (*C.uchar)(unsafe.Pointer(&bodyBytes[0]))
	}
	return C.nyquest_send_request(session, C.uintptr_t(token), methodC, urlC, headerC,
		bodyPtr, C.longlong(len(bodyBytes)), boolToC(isStream))
}

func cancelTask(task unsafe.Pointer) {
	C.nyquest_cancel_task(task)
}

//export goOnDidReceiveResponse
func goOnDidReceiveResponse(token C.uintptr_t, statusCode C.int, contentLength C.longlong, headerBlock *C.char) {
	rc := registry.lookup(uintptr(token))
	if rc == nil {
		return
	}
	var headers []core.Header
	if headerBlock != nil {
		headers = parseHeaderBlock(C.GoString(headerBlock))
	}
	rc.setHeaderFinished(core.ResponseMeta{
		StatusCode:    uint16(statusCode),
		ContentLength: int64(contentLength),
		Headers:       headers,
	})
}

//export goOnDidReceiveData
func goOnDidReceiveData(token C.uintptr_t, data unsafe.Pointer, length C.longlong) {
	rc := registry.lookup(uintptr(token))
	if rc == nil {
		return
	}
	chunk := C.GoBytes(data, C.int(length))
	rc.appendBody(chunk)
}

//export goOnDidCompleteWithError
func goOnDidCompleteWithError(token C.uintptr_t, errMsg *C.char) {
	rc := registry.lookup(uintptr(token))
	if rc == nil {
		return
	}
	if errMsg == nil {
		rc.setTerminal(nil)
		return
	}
	rc.setTerminal(core.NewIOError(errString(C.GoString(errMsg))))
}

type bridgeError string

func (e bridgeError) Error() string { return string(e) }

func errString(s string) error { return bridgeError(s) }
