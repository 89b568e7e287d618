// Package security provides input validation helpers for iristint.
package security

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"path"
	"strings"
)

// MaxEntryNameLength bounds archive entry names.
const MaxEntryNameLength = 255

// ValidateHTTPURL validates a remote texture or mask URL.
// Only HTTPS URLs pointing at public hosts are accepted.
func ValidateHTTPURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("only HTTPS URLs are allowed (got %s)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	// Block localhost and private ranges to prevent SSRF.
	host := strings.ToLower(parsed.Hostname())
	if isLocalOrPrivateHost(host) {
		return fmt.Errorf("URL cannot point to local or private hosts: %s", host)
	}

	return nil
}

// ValidateEntryName checks that an archive entry name is a plain relative file
// name that cannot escape the archive root when extracted.
func ValidateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("empty entry name")
	}
	if len(name) > MaxEntryNameLength {
		return fmt.Errorf("entry name exceeds %d bytes", MaxEntryNameLength)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("entry name contains directory traversal (..) - not allowed")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("absolute or backslash paths in archives are not allowed")
	}
	if path.Clean(name) != name {
		return fmt.Errorf("entry name %q is not in canonical form", name)
	}
	return nil
}

// SafeUint8 converts an integer to uint8, clamping to 0-255.
func SafeUint8(val int) uint8 {
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}
	return uint8(val)
}

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// Archive listing uses it to bound decompressed streams.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, fmt.Errorf("decompression size limit exceeded")
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}

// isLocalOrPrivateHost checks if a hostname is localhost or a literal
// loopback, private or link-local address.
func isLocalOrPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
