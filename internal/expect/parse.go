// Package expect parses inline expectation markers out of test
// fragments and matches them against the diagnostics a front-end
// actually produced.
package expect

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultMarker is the inline annotation that declares an expected
// diagnostic. Everything after it, up to end of line, is one message.
const DefaultMarker = "//~"

// ParseLine extracts the expected message following marker in line.
// The message is the whitespace-trimmed remainder of the line; ok is
// false when the marker does not occur. Only the first marker
// occurrence on a line is meaningful.
func ParseLine(line, marker string) (msg string, ok bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[idx+len(marker):]), true
}

// scanMessages reads path line by line and collects the non-empty
// expected messages in file order. Messages are NFC-normalized so they
// compare byte-equal with normalized front-end output.
func scanMessages(path, marker string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fragment: %w", err)
	}
	defer f.Close()

	var messages []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		msg, ok := ParseLine(sc.Text(), marker)
		if !ok || msg == "" {
			continue
		}
		messages = append(messages, norm.NFC.String(msg))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan fragment: %w", err)
	}
	return messages, nil
}
