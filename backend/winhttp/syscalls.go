//go:build windows

package winhttp

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/nyquest-go/nyquest/internal/core"
)

// callErr wraps a failing WinHTTP proc call's GetLastError into a
// core.Error the same way backend/libcurl's errors.go wraps a curl
// result code: the native detail is kept as Cause, the Kind defaults
// to IO unless the caller knows better.
func callErr(fn string, lastErr error) *core.Error {
	return core.NewIOError(fmt.Errorf("winhttp: %s: %w", fn, lastErr))
}

func utf16PtrOrNil(s string) (*uint16, error) {
	if s == "" {
		return nil, nil
	}
	return windows.UTF16PtrFromString(s)
}

func winHttpOpen(userAgent string, accessType uint32) (uintptr, error) {
	ua, err := utf16PtrOrNil(userAgent)
	if err != nil {
		return 0, err
	}
	h, _, lastErr := procWinHttpOpen.Call(
		uintptr(unsafe.Pointer(ua)),
		uintptr(accessType),
		0, // proxy name: WINHTTP_NO_PROXY_NAME
		0, // proxy bypass: WINHTTP_NO_PROXY_BYPASS
		uintptr(winhttpFlagAsync),
	)
	if h == 0 {
		return 0, callErr("WinHttpOpen", lastErr)
	}
	return h, nil
}

func winHttpConnect(hSession uintptr, host string, port uint16) (uintptr, error) {
	hostPtr, err := windows.UTF16PtrFromString(host)
	if err != nil {
		return 0, err
	}
	h, _, lastErr := procWinHttpConnect.Call(hSession, uintptr(unsafe.Pointer(hostPtr)), uintptr(port), 0)
	if h == 0 {
		return 0, callErr("WinHttpConnect", lastErr)
	}
	return h, nil
}

func winHttpOpenRequest(hConnect uintptr, verb, path string, secure bool) (uintptr, error) {
	verbPtr, err := windows.UTF16PtrFromString(verb)
	if err != nil {
		return 0, err
	}
	pathPtr, err := utf16PtrOrNil(path)
	if err != nil {
		return 0, err
	}
	var flags uintptr
	if secure {
		flags = winhttpFlagSecure
	}
	h, _, lastErr := procWinHttpOpenRequest.Call(
		hConnect,
		uintptr(unsafe.Pointer(verbPtr)),
		uintptr(unsafe.Pointer(pathPtr)),
		0, // version: NULL means HTTP/1.1
		0, // referrer: WINHTTP_NO_REFERER
		0, // accept types: WINHTTP_DEFAULT_ACCEPT_TYPES
		flags,
	)
	if h == 0 {
		return 0, callErr("WinHttpOpenRequest", lastErr)
	}
	return h, nil
}

func winHttpSetContextValue(hRequest uintptr, token uintptr) error {
	ok, _, lastErr := procWinHttpSetOption.Call(
		hRequest,
		uintptr(winhttpOptionContextValue),
		uintptr(unsafe.Pointer(&token)),
		unsafe.Sizeof(token),
	)
	if ok == 0 {
		return callErr("WinHttpSetOption(CONTEXT_VALUE)", lastErr)
	}
	return nil
}

func winHttpSetStatusCallback(hInternet uintptr, cb uintptr) error {
	prev, _, lastErr := procWinHttpSetStatusCallback.Call(hInternet, cb, uintptr(winhttpCallbackFlagAllNotifications), 0)
	// WinHttpSetStatusCallback returns WINHTTP_INVALID_STATUS_CALLBACK
	// (an all-ones value) on failure rather than a simple zero/nonzero
	// result.
	if prev == ^uintptr(0) {
		return callErr("WinHttpSetStatusCallback", lastErr)
	}
	return nil
}

func winHttpSetTimeouts(hRequest uintptr, resolveMs, connectMs, sendMs, receiveMs int32) error {
	ok, _, lastErr := procWinHttpSetTimeouts.Call(
		hRequest,
		uintptr(resolveMs),
		uintptr(connectMs),
		uintptr(sendMs),
		uintptr(receiveMs),
	)
	if ok == 0 {
		return callErr("WinHttpSetTimeouts", lastErr)
	}
	return nil
}

func winHttpAddRequestHeaders(hRequest uintptr, headers string) error {
	if headers == "" {
		return nil
	}
	ptr, err := windows.UTF16PtrFromString(headers)
	if err != nil {
		return err
	}
	const modifyFlags = 0x20000000 | 0x80000000 // WINHTTP_ADDREQ_FLAG_ADD | _REPLACE
	ok, _, lastErr := procWinHttpAddRequestHeaders.Call(
		hRequest,
		uintptr(unsafe.Pointer(ptr)),
		^uintptr(0), // -1L: NUL-terminated
		uintptr(modifyFlags),
	)
	if ok == 0 {
		return callErr("WinHttpAddRequestHeaders", lastErr)
	}
	return nil
}

// winhttpIgnoreRequestTotalLength is WINHTTP_IGNORE_REQUEST_TOTAL_LENGTH:
// passed as dwTotalLength to announce a chunked-transfer-encoded body
// whose size isn't known up front.
const winhttpIgnoreRequestTotalLength = 0xFFFFFFFF

func winHttpSendRequest(hRequest uintptr, totalLength int64, token uintptr) error {
	length := uintptr(winhttpIgnoreRequestTotalLength)
	if totalLength >= 0 {
		length = uintptr(totalLength)
	}
	ok, _, lastErr := procWinHttpSendRequest.Call(
		hRequest,
		0, 0, // no extra headers (already added via AddRequestHeaders)
		0, 0, // optional data supplied via WriteData instead
		length,
		token,
	)
	if ok == 0 {
		return callErr("WinHttpSendRequest", lastErr)
	}
	return nil
}

func winHttpWriteData(hRequest uintptr, data []byte) error {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	ok, _, lastErr := procWinHttpWriteData.Call(hRequest, uintptr(ptr), uintptr(len(data)), 0)
	if ok == 0 {
		return callErr("WinHttpWriteData", lastErr)
	}
	return nil
}

func winHttpQueryStatusCode(hRequest uintptr) (uint32, error) {
	var code, size uint32
	size = uint32(unsafe.Sizeof(code))
	flags := uint32(winhttpQueryStatusCode | winhttpQueryFlagNumber)
	ok, _, lastErr := procWinHttpQueryHeaders.Call(
		hRequest,
		uintptr(flags),
		0, // WINHTTP_HEADER_NAME_BY_INDEX
		uintptr(unsafe.Pointer(&code)),
		uintptr(unsafe.Pointer(&size)),
		0,
	)
	if ok == 0 {
		return 0, callErr("WinHttpQueryHeaders(STATUS_CODE)", lastErr)
	}
	return code, nil
}

func winHttpQueryContentLength(hRequest uintptr) int64 {
	var length, size uint32
	size = uint32(unsafe.Sizeof(length))
	flags := uint32(winhttpQueryContentLength | winhttpQueryFlagNumber)
	ok, _, _ := procWinHttpQueryHeaders.Call(
		hRequest,
		uintptr(flags),
		0,
		uintptr(unsafe.Pointer(&length)),
		uintptr(unsafe.Pointer(&size)),
		0,
	)
	if ok == 0 {
		return -1
	}
	return int64(length)
}

// winHttpQueryRawHeaders fetches the CRLF-joined raw header block,
// growing the scratch buffer until it fits (WinHTTP reports the
// required size in ERROR_INSUFFICIENT_BUFFER).
func winHttpQueryRawHeaders(hRequest uintptr) (string, error) {
	size := uint32(4096)
	for {
		buf := make([]uint16, size/2)
		reqSize := size
		ok, _, lastErr := procWinHttpQueryHeaders.Call(
			hRequest,
			uintptr(winhttpQueryRawHeadersCRLF),
			0,
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(unsafe.Pointer(&reqSize)),
			0,
		)
		if ok != 0 {
			return windows.UTF16ToString(buf[:reqSize/2]), nil
		}
		if errno, isErrno := lastErr.(syscall.Errno); isErrno && errno == 122 /* ERROR_INSUFFICIENT_BUFFER */ && reqSize > size {
			size = reqSize
			continue
		}
		return "", callErr("WinHttpQueryHeaders(RAW_HEADERS_CRLF)", lastErr)
	}
}

func winHttpQueryDataAvailable(hRequest uintptr) error {
	ok, _, lastErr := procWinHttpQueryDataAvailable.Call(hRequest, 0)
	if ok == 0 {
		return callErr("WinHttpQueryDataAvailable", lastErr)
	}
	return nil
}

func winHttpReadData(hRequest uintptr, buf []byte) error {
	var read uint32
	ok, _, lastErr := procWinHttpReadData.Call(
		hRequest,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&read)),
	)
	if ok == 0 {
		return callErr("WinHttpReadData", lastErr)
	}
	return nil
}

func setIgnoreCertErrors(hRequest uintptr) error {
	flags := uint32(winhttpSecurityFlagIgnoreUnknownCA | winhttpSecurityFlagIgnoreCertDateInvalid |
		winhttpSecurityFlagIgnoreCertCNInvalid | winhttpSecurityFlagIgnoreCertWrongUsage)
	ok, _, lastErr := procWinHttpSetOption.Call(
		hRequest,
		uintptr(winhttpOptionSecurityFlags),
		uintptr(unsafe.Pointer(&flags)),
		unsafe.Sizeof(flags),
	)
	if ok == 0 {
		return callErr("WinHttpSetOption(SECURITY_FLAGS)", lastErr)
	}
	return nil
}

func disableRedirects(hRequest uintptr) error {
	flags := uint32(winhttpDisableRedirects)
	ok, _, lastErr := procWinHttpSetOption.Call(
		hRequest,
		uintptr(winhttpOptionDisableFeature),
		uintptr(unsafe.Pointer(&flags)),
		unsafe.Sizeof(flags),
	)
	if ok == 0 {
		return callErr("WinHttpSetOption(DISABLE_FEATURE)", lastErr)
	}
	return nil
}

func winHttpCloseHandle(h uintptr) {
	if h == 0 {
		return
	}
	procWinHttpCloseHandle.Call(h)
}
