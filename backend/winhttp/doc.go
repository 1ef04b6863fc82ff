// Package winhttp implements the nyquest async backend on top of the
// WinHTTP DLL (spec.md §4.3), for Windows targets only.
//
// There is no pack example that calls WinHTTP directly; this package is
// grounded on golang.org/x/sys/windows's LazyDLL/NewProc calling
// convention (the same dependency the teacher pulls in transitively) and
// the general Go idiom for wrapping a callback-based Win32 API: a
// process-wide windows.NewCallback trampoline dispatches into a Go-side
// registry keyed by the request's context pointer, exactly mirroring
// backend/libcurl's easyRegistry for the same reason (the native side
// only ever hands back its own handle/pointer type). The upload side
// reuses internal/streamio's poll-fill-buffer Writer instead of
// reimplementing segment sequencing a third time.
package winhttp
