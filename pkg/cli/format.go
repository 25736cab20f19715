package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatDuration formats a duration to a short human readable string
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	secs := d.Seconds()
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	secs = secs - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

// FormatBytes formats bytes to human readable string
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatBytesInt formats bytes (int) to human readable string
func FormatBytesInt(bytes int) string {
	return FormatBytes(int64(bytes))
}

// FormatBitrate formats bits per second, e.g. "128 kbps"
func FormatBitrate(bps float64) string {
	if bps <= 0 {
		return "-"
	}
	return humanize.SIWithDigits(bps, 1, "bps")
}

// FormatCount formats an integer with thousands separators
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// ParseSize parses a size such as "512KiB", "64 MB" or "1000"
func ParseSize(s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > uint64(int(^uint(0)>>1)) {
		return 0, fmt.Errorf("invalid size %q: too large", s)
	}
	return int(n), nil
}
