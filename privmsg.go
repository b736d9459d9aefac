package twitchirc

import "strings"

// PrivateMessage is a chat message posted to a channel. ID is the value of
// the "id" tag and is empty unless the twitch.tv/tags capability was granted.
type PrivateMessage struct {
	ID      string
	Channel string
	Author  string
	Text    string
	Message *Message
}

// Privmsg returns the chat message carried by a PRIVMSG line.
func (m *Message) Privmsg() (*PrivateMessage, bool) {
	if m.Command.Type != CommandPrivmsg || !m.Prefix.HasNick() {
		return nil, false
	}

	target, text, _ := strings.Cut(m.Command.Content, " ")
	if !strings.HasPrefix(target, channelSigil) || len(target) == 1 {
		return nil, false
	}

	id, _ := m.Tag("id")

	return &PrivateMessage{
		ID:      id,
		Channel: strings.TrimPrefix(target, channelSigil),
		Author:  m.Prefix.Nick,
		Text:    strings.TrimPrefix(text, ":"),
		Message: m,
	}, true
}

// Privmsg builds a line posting text to channel.
func Privmsg(channel, text string) string {
	return "PRIVMSG " + channelName(channel) + " :" + text
}

// Reply builds a line posting text to channel as a threaded reply to the
// message with the given ID.
func Reply(parentID, channel, text string) string {
	if parentID == "" {
		return Privmsg(channel, text)
	}
	return "@reply-parent-msg-id=" + parentID + " " + Privmsg(channel, text)
}

// channelName adds the leading '#' when it is missing.
func channelName(channel string) string {
	if strings.HasPrefix(channel, channelSigil) {
		return channel
	}
	return channelSigil + channel
}
