package tracker

import (
	"strings"
)

const commandParts = 2

// parseCommand splits "/cmd rest of line" into the command word and its
// argument. Bare text without a leading slash is routed to the no-command
// handler.
func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if len(split) == commandParts && strings.HasPrefix(text, "/") {
		return split[0], strings.TrimSpace(split[1])
	}
	if strings.HasPrefix(text, "/") {
		return text, ""
	}
	return "", text
}
