package wire

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nyquest-go/nyquest/internal/core"
)

// NewBoundary generates a multipart/form-data boundary. The teacher
// pack's BridgeSenseDev binding leaves boundary generation to whatever
// calls it; we ground this on google/uuid (wired per SPEC_FULL.md §4)
// rather than hand-rolling a random string.
func NewBoundary() string {
	return "nyquest-" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// EscapeFilename replaces '"', '\' and '/' with '_', per spec.md §6
// ("Multipart wire format").
func EscapeFilename(name string) string {
	r := strings.NewReplacer(`"`, "_", `\`, "_", "/", "_")
	return r.Replace(name)
}

// EscapeHeaderName escapes ':' as "%3A" in a per-part extra header
// name, per spec.md §6.
func EscapeHeaderName(name string) string {
	return strings.ReplaceAll(name, ":", "%3A")
}

// EscapeHeaderValue escapes CR and LF as the literal two characters
// "\n" in a per-part extra header value, per spec.md §6.
func EscapeHeaderValue(value string) string {
	r := strings.NewReplacer("\r\n", `\n`, "\r", `\n`, "\n", `\n`)
	return r.Replace(value)
}

// PartPreamble renders the "--boundary\r\nContent-Disposition: ...\r\n
// Content-Type: ...\r\n[extra-headers]\r\n\r\n" framing that precedes a
// part's body bytes.
func PartPreamble(boundary string, p core.Part) []byte {
	var b strings.Builder
	b.WriteString("--")
	b.WriteString(boundary)
	b.WriteString("\r\n")

	b.WriteString(`Content-Disposition: form-data; name="`)
	b.WriteString(p.Name)
	b.WriteByte('"')
	if p.Filename != "" {
		b.WriteString(`; filename="`)
		b.WriteString(EscapeFilename(p.Filename))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")

	if p.ContentType != "" {
		fmt.Fprintf(&b, "Content-Type: %s\r\n", p.ContentType)
	}
	for _, h := range p.Headers {
		fmt.Fprintf(&b, "%s: %s\r\n", EscapeHeaderName(h.Name), EscapeHeaderValue(h.Value))
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// PartTerminator is written after a part's body bytes, before the next
// part's preamble (or the final boundary).
func PartTerminator() []byte { return []byte("\r\n") }

// FinalBoundary closes a multipart/form-data body.
func FinalBoundary(boundary string) []byte {
	return []byte("--" + boundary + "--\r\n")
}

// EncodeMultipartBytes fully renders a multipart body whose parts are
// all byte-bodied (no streams) into a single buffer. Stream-bodied
// parts are rendered incrementally by internal/streamio.Writer instead;
// this helper exists for the common all-bytes case (e.g. the libcurl
// backend's non-streaming fast path) and for tests.
func EncodeMultipartBytes(boundary string, parts []core.Part) ([]byte, error) {
	var b strings.Builder
	for _, p := range parts {
		if p.BodyKind != core.PartBodyKindBytes {
			return nil, fmt.Errorf("wire: part %q is not byte-bodied", p.Name)
		}
		b.Write(PartPreamble(boundary, p))
		b.Write(p.BytesContent)
		b.Write(PartTerminator())
	}
	b.Write(FinalBoundary(boundary))
	return []byte(b.String()), nil
}
