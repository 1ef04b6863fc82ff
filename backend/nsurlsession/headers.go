//go:build darwin

package nsurlsession

import (
	"strings"

	"github.com/nyquest-go/nyquest/internal/core"
)

// parseHeaderBlock splits the "Name: Value\n"-joined block
// didReceiveResponse hands back (built from NSHTTPURLResponse's
// allHeaderFields in bridge_darwin.m) into ordered Header pairs.
func parseHeaderBlock(block string) []core.Header {
	var out []core.Header
	for _, line := range strings.Split(block, "\n") {
		if line == "" {
			continue
		}
		idx := strings.Index(line, ": ")
		if idx < 0 {
			continue
		}
		out = append(out, core.Header{Name: line[:idx], Value: line[idx+2:]})
	}
	return out
}
