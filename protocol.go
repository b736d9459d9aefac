package twitchirc

import "strings"

// CommandType identifies the verb of a protocol line. Known verbs have named
// constants; any other value is a numeric reply code.
type CommandType string

const (
	CommandJoin            CommandType = "JOIN"
	CommandNick            CommandType = "NICK"
	CommandPart            CommandType = "PART"
	CommandPass            CommandType = "PASS"
	CommandPing            CommandType = "PING"
	CommandPong            CommandType = "PONG"
	CommandPrivmsg         CommandType = "PRIVMSG"
	CommandClearChat       CommandType = "CLEARCHAT"
	CommandClearMsg        CommandType = "CLEARMSG"
	CommandGlobalUserState CommandType = "GLOBALUSERSTATE"
	CommandHostTarget      CommandType = "HOSTTARGET"
	CommandNotice          CommandType = "NOTICE"
	CommandReconnect       CommandType = "RECONNECT"
	CommandRoomState       CommandType = "ROOMSTATE"
	CommandUserNotice      CommandType = "USERNOTICE"
	CommandUserState       CommandType = "USERSTATE"
	CommandWhisper         CommandType = "WHISPER"
	CommandCapReq          CommandType = "CAP REQ"
	CommandCapAck          CommandType = "CAP * ACK"
	CommandCapNak          CommandType = "CAP * NAK"
)

// numericLen is the length of a numeric reply code.
const numericLen = 3

// Content offsets for the capability replies, whose verb spans several tokens.
const (
	capReplyContentOffset   = len(CommandCapAck) + 1
	capRequestContentOffset = len(CommandCapReq) + 1
)

// Wire lines the session writes on its own.
const (
	pingPrefix   = "PING"
	pongLine     = "PONG :tmi.twitch.tv"
	lineEnding   = "\r\n"
	placeholder  = "\U000E0000"
	channelSigil = "#"
)

var knownCommands = map[CommandType]struct{}{
	CommandJoin: {}, CommandNick: {}, CommandPart: {}, CommandPass: {},
	CommandPing: {}, CommandPong: {}, CommandPrivmsg: {}, CommandClearChat: {},
	CommandClearMsg: {}, CommandGlobalUserState: {}, CommandHostTarget: {},
	CommandNotice: {}, CommandReconnect: {}, CommandRoomState: {},
	CommandUserNotice: {}, CommandUserState: {}, CommandWhisper: {},
	CommandCapReq: {}, CommandCapAck: {}, CommandCapNak: {},
}

// String returns the verb as it appears on the wire.
func (c CommandType) String() string {
	return string(c)
}

// IsNumeric returns true if c is not one of the named command types.
func (c CommandType) IsNumeric() bool {
	_, ok := knownCommands[c]
	return !ok
}

// ClassifyCommand maps the command portion of a line to its CommandType.
//
// Matching looks at a fixed-length leading slice of text: four characters for
// most verbs, longer ones where two verbs share a prefix. Text that matches
// nothing is a numeric reply and yields its first three characters.
func ClassifyCommand(text string) CommandType {
	switch {
	case strings.HasPrefix(text, "JOIN"):
		return CommandJoin
	case strings.HasPrefix(text, "NICK"):
		return CommandNick
	case strings.HasPrefix(text, "PART"):
		return CommandPart
	case strings.HasPrefix(text, "PASS"):
		return CommandPass
	case strings.HasPrefix(text, "PING"):
		return CommandPing
	case strings.HasPrefix(text, "PONG"):
		return CommandPong
	case strings.HasPrefix(text, "PRIV"):
		return CommandPrivmsg
	case strings.HasPrefix(text, "CLEA"):
		if strings.HasPrefix(text, "CLEARMSG") {
			return CommandClearMsg
		}
		return CommandClearChat
	case strings.HasPrefix(text, "GLOB"):
		return CommandGlobalUserState
	case strings.HasPrefix(text, "HOST"):
		return CommandHostTarget
	case strings.HasPrefix(text, "NOTI"):
		return CommandNotice
	case strings.HasPrefix(text, "RECO"):
		return CommandReconnect
	case strings.HasPrefix(text, "ROOM"):
		return CommandRoomState
	case strings.HasPrefix(text, "USER"):
		if strings.HasPrefix(text, "USERSTATE") {
			return CommandUserState
		}
		return CommandUserNotice
	case strings.HasPrefix(text, "WHIS"):
		return CommandWhisper
	case strings.HasPrefix(text, "CAP "):
		switch {
		case strings.HasPrefix(text, string(CommandCapReq)):
			return CommandCapReq
		case strings.HasPrefix(text, "CAP * A"):
			return CommandCapAck
		default:
			return CommandCapNak
		}
	}

	if len(text) < numericLen {
		return CommandType(text)
	}
	return CommandType(text[:numericLen])
}
