package mailbox

import (
	"regexp"
	"strings"
)

// English reply and signature boilerplate markers. A line matching any of
// these ends the new content of a reply; everything from the marker on is
// quoted history or signature.
var replyMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^On .{1,200} wrote:\s*$`),
	regexp.MustCompile(`^-{3,}\s*Original Message\s*-{3,}$`),
	regexp.MustCompile(`^-{3,}\s*Forwarded message\s*-{3,}$`),
	regexp.MustCompile(`^>`),
	regexp.MustCompile(`^--\s*$`),
	regexp.MustCompile(`^_{5,}\s*$`),
	regexp.MustCompile(`^Sent from my `),
	regexp.MustCompile(`^Get Outlook for `),
	regexp.MustCompile(`^From:\s.+$`),
}

// StripReply removes quoted prior-message text and signature blocks from a
// reply body, leaving only the new content. Stripping an already-stripped
// body is a no-op: the result contains no marker lines.
func StripReply(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if isMarker(trimmed) {
			break
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isMarker(line string) bool {
	for _, marker := range replyMarkers {
		if marker.MatchString(line) {
			return true
		}
	}
	return false
}
