// Package libcurl implements nyquest's libcurl async/blocking backend
// (spec.md §4.2): a single dedicated goroutine (OS-thread-pinned, since
// a libcurl multi handle and its easy handles must be destroyed on the
// same thread) owns a curl multi handle, drains a task-message channel,
// and runs the pause/unpause backpressure protocol between the native
// write/read callbacks and the async tasks awaiting them.
//
// The backend is grounded on the teacher package
// raymanaa-go-curl-impersonate-net-http-wrapper, which drives
// github.com/BridgeSenseDev/go-curl-impersonate easy handles
// (curl.EasyInit, Setopt, Perform, Getinfo, connection pooling,
// callback-based write functions) synchronously; this package
// generalizes that into the full driver-loop architecture spec.md §4.2
// describes, behind the EasyHandle/MultiHandle/ShareHandle interfaces
// in handle.go so the driver-loop logic in driveloop.go is unit-testable
// without cgo or a real libcurl present (see context_test.go's fake
// handle).
package libcurl
