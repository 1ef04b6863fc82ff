//go:build windows

package winhttp

import "golang.org/x/sys/windows"

// WinHTTP constants used by this package (winhttp.h).
const (
	winhttpAccessTypeDefaultProxy  = 0
	winhttpAccessTypeAutomaticProxy = 4
	winhttpAccessTypeNamedProxy    = 3

	winhttpFlagAsync   = 0x10000000
	winhttpFlagSecure  = 0x00800000

	winhttpOptionContextValue    = 45
	winhttpOptionSecurityFlags   = 31
	winhttpOptionDisableFeature  = 63
	winhttpDisableRedirects      = 0x00000002

	// winhttpSecurityFlags, OR'd into WINHTTP_OPTION_SECURITY_FLAGS to
	// ignore every category of certificate validation error. Only set
	// when ClientOptions.IgnoreCertificateErrors is true.
	winhttpSecurityFlagIgnoreUnknownCA        = 0x00000100
	winhttpSecurityFlagIgnoreCertDateInvalid  = 0x00002000
	winhttpSecurityFlagIgnoreCertCNInvalid    = 0x00001000
	winhttpSecurityFlagIgnoreCertWrongUsage   = 0x00000200

	winhttpQueryStatusCode     = 19
	winhttpQueryFlagNumber     = 0x20000000
	winhttpQueryRawHeadersCRLF = 22
	winhttpQueryContentLength  = 5

	winhttpCallbackStatusSendingRequest       = 0x00000010
	winhttpCallbackStatusSendRequestComplete  = 0x00400000
	winhttpCallbackStatusHeadersAvailable     = 0x00020000
	winhttpCallbackStatusDataAvailable        = 0x00040000
	winhttpCallbackStatusReadComplete         = 0x00080000
	winhttpCallbackStatusWriteComplete        = 0x00100000
	winhttpCallbackStatusRequestError         = 0x00200000
	winhttpCallbackStatusSecureFailure        = 0x00010000

	winhttpCallbackFlagAllNotifications = 0xFFFFFFFF

	winhttpErrorBase = 12000
)

// winhttpDLL exposes the subset of winhttp.dll this backend calls,
// bound lazily like every golang.org/x/sys/windows consumer in the
// ecosystem (avoids a load-time dependency on a DLL absent on non-
// Windows build targets, even though the build tag already excludes
// those).
var winhttpDLL = windows.NewLazySystemDLL("winhttp.dll")

var (
	procWinHttpOpen              = winhttpDLL.NewProc("WinHttpOpen")
	procWinHttpConnect           = winhttpDLL.NewProc("WinHttpConnect")
	procWinHttpOpenRequest       = winhttpDLL.NewProc("WinHttpOpenRequest")
	procWinHttpSetOption         = winhttpDLL.NewProc("WinHttpSetOption")
	procWinHttpSetStatusCallback = winhttpDLL.NewProc("WinHttpSetStatusCallback")
	procWinHttpSendRequest       = winhttpDLL.NewProc("WinHttpSendRequest")
	procWinHttpWriteData         = winhttpDLL.NewProc("WinHttpWriteData")
	procWinHttpReceiveResponse   = winhttpDLL.NewProc("WinHttpReceiveResponse")
	procWinHttpQueryHeaders      = winhttpDLL.NewProc("WinHttpQueryHeaders")
	procWinHttpQueryDataAvailable = winhttpDLL.NewProc("WinHttpQueryDataAvailable")
	procWinHttpReadData          = winhttpDLL.NewProc("WinHttpReadData")
	procWinHttpCloseHandle       = winhttpDLL.NewProc("WinHttpCloseHandle")
	procWinHttpAddRequestHeaders = winhttpDLL.NewProc("WinHttpAddRequestHeaders")
	procWinHttpSetTimeouts       = winhttpDLL.NewProc("WinHttpSetTimeouts")
)
