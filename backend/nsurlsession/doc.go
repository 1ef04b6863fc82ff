// Package nsurlsession implements the nyquest async backend on top of
// Foundation's NSURLSession, for Darwin targets only.
//
// No pack repo binds Objective-C/Cocoa; this package is grounded on the
// general cgo idiom the corpus does use for a native callback API —
// docker-compose/archutils/epoll_aarch64.go's "inline C in a comment
// block above import \"C\", thin Go wrappers below it" shape — applied
// to Objective-C via a .m/.h pair instead of C, since NSURLSession's
// delegate protocol has no C ABI. The delegate's Go half is reached
// through //export'd trampoline functions (bridge_darwin.go), dispatching by a
// context token the same way backend/winhttp's registry recovers Go
// state from a DWORD_PTR and backend/libcurl's easyRegistry recovers it
// from a *curl.CURL. The upload path reuses internal/streamio's Writer,
// same as backend/winhttp, instead of a third hand-rolled segment
// sequencer.
package nsurlsession
