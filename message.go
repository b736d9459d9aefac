package twitchirc

import "strings"

// Tag is one entry of a line's tag block. A tag written as "name=" or plain
// "name" has an empty Value.
type Tag struct {
	Name  string
	Value string
}

// String renders the tag as name=value. The separator is always written.
func (t Tag) String() string {
	return t.Name + "=" + t.Value
}

// Prefix identifies the origin of a line.
//
// Twitch sends either ":host" or ":nick!nick@nick.host". Only the nick and the
// host suffix are kept, so the second form is rebuilt by repeating the nick.
type Prefix struct {
	Nick string
	Host string
}

// HasNick returns true if the prefix names a user.
func (p Prefix) HasNick() bool {
	return p.Nick != ""
}

// String renders the prefix including the leading colon.
func (p Prefix) String() string {
	if p.Nick == "" {
		return ":" + p.Host
	}
	return ":" + p.Nick + "!" + p.Nick + "@" + p.Nick + "." + p.Host
}

// Command is the verb of a line and everything that follows it.
type Command struct {
	Type    CommandType
	Content string
}

// String renders the command. Empty content renders as the bare verb.
func (c Command) String() string {
	if c.Content == "" {
		return string(c.Type)
	}
	return string(c.Type) + " " + c.Content
}

// Message is a single parsed protocol line.
type Message struct {
	Tags    []Tag
	Prefix  Prefix
	Command Command
}

// Tag returns the value of the named tag.
func (m *Message) Tag(name string) (string, bool) {
	for _, tag := range m.Tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

// String serializes the message back to its wire form, CRLF included.
func (m *Message) String() string {
	var sb strings.Builder

	if len(m.Tags) > 0 {
		sb.WriteByte('@')
		for i, tag := range m.Tags {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(tag.String())
		}
		sb.WriteByte(' ')
	}

	sb.WriteString(m.Prefix.String())
	sb.WriteByte(' ')
	sb.WriteString(m.Command.String())
	sb.WriteString(lineEnding)

	return sb.String()
}

// ParseMessage parses one protocol line. The line must not carry its CRLF
// terminator or surrounding whitespace.
//
// The returned error is a *ParseError when a delimiter the grammar requires is
// missing.
func ParseMessage(line string) (*Message, error) {
	rest := line
	msg := &Message{}

	if strings.HasPrefix(rest, "@") {
		block, after, ok := strings.Cut(rest[1:], " ")
		if !ok {
			return nil, &ParseError{Line: line, Reason: "tag block not followed by a space"}
		}
		tags, err := parseTags(line, block)
		if err != nil {
			return nil, err
		}
		msg.Tags = tags
		rest = after
	}

	raw, after, ok := strings.Cut(rest, " ")
	if !ok {
		return nil, &ParseError{Line: line, Reason: "prefix not followed by a space"}
	}
	prefix, err := parsePrefix(line, raw)
	if err != nil {
		return nil, err
	}
	msg.Prefix = prefix

	cmd, err := parseCommand(line, after)
	if err != nil {
		return nil, err
	}
	msg.Command = cmd

	return msg, nil
}

func parseTags(line, block string) ([]Tag, error) {
	parts := strings.Split(block, ";")
	tags := make([]Tag, 0, len(parts))

	for _, part := range parts {
		name, value, _ := strings.Cut(part, "=")
		if name == "" {
			return nil, &ParseError{Line: line, Reason: "empty tag name"}
		}
		tags = append(tags, Tag{Name: name, Value: value})
	}

	return tags, nil
}

func parsePrefix(line, raw string) (Prefix, error) {
	body, ok := strings.CutPrefix(raw, ":")
	if !ok {
		return Prefix{}, &ParseError{Line: line, Reason: "prefix does not start with ':'"}
	}

	at := strings.IndexByte(body, '@')
	if at < 0 {
		return Prefix{Host: body}, nil
	}

	bang := strings.IndexByte(body, '!')
	if bang < 0 {
		return Prefix{}, &ParseError{Line: line, Reason: "prefix has '@' but no '!'"}
	}
	nick := body[:bang]
	if nick == "" {
		return Prefix{}, &ParseError{Line: line, Reason: "empty nick in prefix"}
	}

	// skip "@" and the "nick." that precedes the host
	start := at + 1 + len(nick) + 1
	if start > len(body) {
		return Prefix{}, &ParseError{Line: line, Reason: "prefix host is truncated"}
	}

	return Prefix{Nick: nick, Host: body[start:]}, nil
}

func parseCommand(line, text string) (Command, error) {
	if len(text) < numericLen {
		return Command{}, &ParseError{Line: line, Reason: "command is too short"}
	}

	cmdType := ClassifyCommand(text)

	var content string
	switch cmdType {
	case CommandCapAck, CommandCapNak:
		content = from(text, capReplyContentOffset)
	case CommandCapReq:
		content = from(text, capRequestContentOffset)
	default:
		_, content, _ = strings.Cut(text, " ")
	}

	return Command{Type: cmdType, Content: content}, nil
}

func from(s string, offset int) string {
	if offset >= len(s) {
		return ""
	}
	return s[offset:]
}
