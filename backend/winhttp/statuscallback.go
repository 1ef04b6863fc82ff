//go:build windows

package winhttp

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/nyquest-go/nyquest/internal/core"
	"github.com/nyquest-go/nyquest/internal/wire"
)

// winhttpAsyncResult mirrors WINHTTP_ASYNC_RESULT, the struct
// WINHTTP_CALLBACK_STATUS_REQUEST_ERROR points lpvStatusInformation at.
type winhttpAsyncResult struct {
	dwResult uintptr
	dwError  uint32
}

var statusCallbackPtr = windows.NewCallback(statusCallback)

// statusCallback is the single process-wide WINHTTP_STATUS_CALLBACK
// trampoline, installed once per hSession in session.go. WinHTTP invokes
// it from its own thread pool, so the requestCtx state the caller also
// reads (state, headers, body buffer, pendingRead) is reached under
// rc.mu, as backend/libcurl's header/write callbacks do with
// requestContext.mu.
func statusCallback(hInternet, dwContext, dwInternetStatus uintptr, lpvStatusInformation unsafe.Pointer, dwStatusInformationLength uint32) uintptr {
	rc := registry.lookup(dwContext)
	if rc == nil {
		return 0
	}
	switch dwInternetStatus {
	case winhttpCallbackStatusSendRequestComplete:
		onSendRequestComplete(rc)
	case winhttpCallbackStatusWriteComplete:
		onWriteComplete(rc)
	case winhttpCallbackStatusHeadersAvailable:
		onHeadersAvailable(rc)
	case winhttpCallbackStatusDataAvailable:
		onDataAvailable(rc, lpvStatusInformation)
	case winhttpCallbackStatusReadComplete:
		onReadComplete(rc, dwStatusInformationLength)
	case winhttpCallbackStatusRequestError:
		onRequestError(rc, lpvStatusInformation)
	}
	return 0
}

// onSendRequestComplete fires once headers (and, for a buffered body,
// the whole body) have been handed to WinHTTP. A streamed upload starts
// pumping its writer here; onWriteComplete then pumps each further
// segment and calls WinHttpReceiveResponse once the writer is drained.
func onSendRequestComplete(rc *requestCtx) {
	if rc.upload != nil && !rc.upload.Done() {
		pumpWrite(rc)
		return
	}
	if ok, _, lastErr := procWinHttpReceiveResponse.Call(rc.hRequest, 0); ok == 0 {
		rc.setTerminal(callErr("WinHttpReceiveResponse", lastErr))
	}
}

// onWriteComplete is delivered after each WinHttpWriteData call
// finishes; it pumps the next segment out of rc.upload until the writer
// reports done, then calls WinHttpReceiveResponse exactly as a fully
// buffered body would.
func onWriteComplete(rc *requestCtx) {
	if rc.upload == nil || rc.upload.Done() {
		if ok, _, lastErr := procWinHttpReceiveResponse.Call(rc.hRequest, 0); ok == 0 {
			rc.setTerminal(callErr("WinHttpReceiveResponse", lastErr))
		}
		return
	}
	pumpWrite(rc)
}

func pumpWrite(rc *requestCtx) {
	buf := make([]byte, 32*1024)
	n, done, err := rc.upload.Fill(buf)
	if err != nil {
		rc.setTerminal(core.NewIOError(err))
		return
	}
	if n == 0 {
		if done {
			if rc.chunked {
				rc.writeBuf = wire.ChunkTerminator()
				if err := winHttpWriteData(rc.hRequest, rc.writeBuf); err != nil {
					rc.setTerminal(err)
				}
				return
			}
			if ok, _, lastErr := procWinHttpReceiveResponse.Call(rc.hRequest, 0); ok == 0 {
				rc.setTerminal(callErr("WinHttpReceiveResponse", lastErr))
			}
			return
		}
		// Nothing ready yet (a slow reader); WinHTTP has no native
		// "pause upload" primitive, so retry the pump on a new
		// goroutine instead of blocking this thread-pool thread.
		go pumpWrite(rc)
		return
	}
	chunk := buf[:n]
	if rc.chunked {
		chunk = wire.ChunkFrame(chunk)
	}
	rc.writeBuf = chunk
	if err := winHttpWriteData(rc.hRequest, rc.writeBuf); err != nil {
		rc.setTerminal(err)
	}
}

func onHeadersAvailable(rc *requestCtx) {
	status, err := winHttpQueryStatusCode(rc.hRequest)
	if err != nil {
		rc.setTerminal(err)
		return
	}
	raw, err := winHttpQueryRawHeaders(rc.hRequest)
	if err != nil {
		rc.setTerminal(err)
		return
	}
	meta := core.ResponseMeta{
		StatusCode:    uint16(status),
		ContentLength: winHttpQueryContentLength(rc.hRequest),
		Headers:       parseRawHeaders(raw),
	}
	rc.setHeaderFinished(meta)
	// Seed the backpressure-of-one pull: the first chunk is requested
	// here so a caller whose first ReadBody lands before this point
	// still has data queued by the time it asks.
	rc.mu.Lock()
	rc.pendingRead = true
	rc.mu.Unlock()
	if err := winHttpQueryDataAvailable(rc.hRequest); err != nil {
		rc.setTerminal(err)
	}
}

// parseRawHeaders splits WinHTTP's CRLF-joined header blob into
// Header pairs, skipping the leading HTTP status line.
func parseRawHeaders(raw string) []core.Header {
	lines := strings.Split(raw, "\r\n")
	var out []core.Header
	for i, line := range lines {
		if line == "" {
			continue
		}
		if i == 0 && !strings.Contains(line, ":") {
			continue // status line
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		out = append(out, core.Header{Name: name, Value: value})
	}
	return out
}

func onDataAvailable(rc *requestCtx, info unsafe.Pointer) {
	available := *(*uint32)(info)
	if available == 0 {
		rc.setTerminal(nil)
		return
	}
	rc.readScratch = make([]byte, available)
	if err := winHttpReadData(rc.hRequest, rc.readScratch); err != nil {
		rc.setTerminal(err)
	}
}

func onReadComplete(rc *requestCtx, bytesRead uint32) {
	rc.appendBody(rc.readScratch[:bytesRead])
	rc.readScratch = nil
	// Wait for the consumer's next ReadBody pull before asking WinHTTP
	// for more — the same credit-of-one discipline backend/libcurl
	// implements via curl_easy_pause, here expressed as "don't call
	// WinHttpQueryDataAvailable again until requestMoreData is called".
}

func onRequestError(rc *requestCtx, info unsafe.Pointer) {
	result := (*winhttpAsyncResult)(info)
	rc.setTerminal(callErr("winhttp callback", syscallError(result.dwError)))
}

func syscallError(code uint32) error {
	return windows.Errno(code)
}

// requestMoreData asks WinHTTP for the next chunk of body data,
// honoring the pull-based backpressure described above. No-op if a
// pull is already outstanding.
func (rc *requestCtx) requestMoreData() {
	rc.mu.Lock()
	if rc.pendingRead || rc.state == stateCompleted || rc.state == stateFailed {
		rc.mu.Unlock()
		return
	}
	rc.pendingRead = true
	rc.mu.Unlock()
	if err := winHttpQueryDataAvailable(rc.hRequest); err != nil {
		rc.setTerminal(err)
	}
}
