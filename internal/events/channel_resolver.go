package events

import (
	"fmt"
	"strconv"
	"strings"
)

const chatChannelPrefix = "channel:chat:"

// ChatChannelPattern matches every per-chat channel, for PSubscribe.
const ChatChannelPattern = chatChannelPrefix + "*"

// ChatChannel is where all events of one chat are published.
func ChatChannel(chatID int64) string {
	return fmt.Sprintf("%s%d", chatChannelPrefix, chatID)
}

// ChatIDFromChannel is the inverse of ChatChannel.
func ChatIDFromChannel(channel string) (int64, bool) {
	if !strings.HasPrefix(channel, chatChannelPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(channel, chatChannelPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
