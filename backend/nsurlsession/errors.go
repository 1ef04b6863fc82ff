//go:build darwin

package nsurlsession

import "errors"

var (
	errCreateSessionFailed = errors.New("nsurlsession: failed to create NSURLSession")
	errSessionClosed       = errors.New("nsurlsession: session is closed")
	errSendRequestFailed   = errors.New("nsurlsession: failed to start data task")
)
