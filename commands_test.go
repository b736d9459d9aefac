package twitchirc

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// captureSender records every line sent through it.
type captureSender struct {
	lines []string
	err   error
}

func (c *captureSender) Send(ctx context.Context, line string) error {
	if c.err != nil {
		return c.err
	}
	c.lines = append(c.lines, line)
	return nil
}

func mustParse(t *testing.T, line string) *Message {
	t.Helper()
	msg, err := ParseMessage(line)
	if err != nil {
		t.Fatalf("ParseMessage(%q) error: %v", line, err)
	}
	return msg
}

func helloCommand() *FuncCommand {
	return NewFuncCommand("hello", func(ctx context.Context, msg *PrivateMessage, args []string) (string, error) {
		return "Hello, " + msg.Author, nil
	})
}

func TestNewCommandSet(t *testing.T) {
	cs := NewCommandSet()
	if cs == nil {
		t.Fatal("NewCommandSet returned nil")
	}
	if cs.prefix != DefaultCommandPrefix {
		t.Errorf("prefix = %s, want %s", cs.prefix, DefaultCommandPrefix)
	}
}

func TestCommandSet_Add_Get(t *testing.T) {
	cs := NewCommandSet()
	cs.Add(helloCommand())

	got, ok := cs.Get("hello")
	if !ok {
		t.Fatal("Get returned false")
	}
	if got.Name() != "hello" {
		t.Errorf("Name = %s, want hello", got.Name())
	}

	if _, ok := cs.Get("nonexistent"); ok {
		t.Error("Get returned true for nonexistent command")
	}
}

func TestCommandSet_Names(t *testing.T) {
	cs := NewCommandSet()
	cs.Add(NewFuncCommand("uptime", nil))
	cs.Add(NewFuncCommand("hello", nil))

	want := []string{"hello", "uptime"}
	if got := cs.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCommandSet_Call(t *testing.T) {
	cs := NewCommandSet()
	cs.Add(helloCommand())

	result, err := cs.Call(context.Background(), "hello", &PrivateMessage{Author: "ronni"}, nil)
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if result != "Hello, ronni" {
		t.Errorf("result = %s, want Hello, ronni", result)
	}

	_, err = cs.Call(context.Background(), "nonexistent", &PrivateMessage{}, nil)
	if !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("err = %v, want ErrCommandNotFound", err)
	}
}

func TestCommandSet_Dispatch(t *testing.T) {
	cs := NewCommandSet()
	var gotArgs []string
	cs.Add(NewFuncCommand("echo", func(ctx context.Context, msg *PrivateMessage, args []string) (string, error) {
		gotArgs = args
		return strings.Join(args, " "), nil
	}))
	out := &captureSender{}

	msg := mustParse(t, ":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :!echo one two")
	if err := cs.Dispatch(context.Background(), out, msg); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if !reflect.DeepEqual(gotArgs, []string{"one", "two"}) {
		t.Errorf("args = %v, want [one two]", gotArgs)
	}
	if !reflect.DeepEqual(out.lines, []string{"PRIVMSG #dallas :one two"}) {
		t.Errorf("sent = %q", out.lines)
	}
}

func TestCommandSet_Dispatch_Ignored(t *testing.T) {
	cs := NewCommandSet()
	cs.Add(helloCommand())
	cs.Add(NewFuncCommand("quiet", func(context.Context, *PrivateMessage, []string) (string, error) {
		return "", nil
	}))

	tests := []string{
		":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :hello",
		":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :!unknown",
		":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :!",
		":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :!quiet",
		":tmi.twitch.tv NOTICE #dallas :!hello",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			out := &captureSender{}
			if err := cs.Dispatch(context.Background(), out, mustParse(t, line)); err != nil {
				t.Fatalf("Dispatch error: %v", err)
			}
			if len(out.lines) != 0 {
				t.Errorf("sent %q, want nothing", out.lines)
			}
		})
	}
}

func TestCommandSet_Dispatch_Prefix(t *testing.T) {
	cs := NewCommandSet()
	cs.SetPrefix("?")
	cs.Add(helloCommand())
	out := &captureSender{}

	msg := mustParse(t, ":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :?hello")
	if err := cs.Dispatch(context.Background(), out, msg); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if !reflect.DeepEqual(out.lines, []string{"PRIVMSG #dallas :Hello, ronni"}) {
		t.Errorf("sent = %q", out.lines)
	}
}

func TestCommandSet_Dispatch_Error(t *testing.T) {
	cs := NewCommandSet()
	expectedErr := errors.New("command error")
	cs.Add(NewFuncCommand("failing", func(context.Context, *PrivateMessage, []string) (string, error) {
		return "", expectedErr
	}))

	msg := mustParse(t, ":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :!failing")
	err := cs.Dispatch(context.Background(), &captureSender{}, msg)
	if !errors.Is(err, expectedErr) {
		t.Errorf("err = %v, want %v", err, expectedErr)
	}
}

func TestCommandSet_InSession(t *testing.T) {
	transport := newMockTransport()
	cs := NewCommandSet()
	cs.Add(helloCommand())
	s := NewSession(testConfig(), cs, transport)

	frame := ":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #dallas :!hello\r\n"
	if err := s.HandleFrame(context.Background(), frame); err != nil {
		t.Fatalf("HandleFrame error: %v", err)
	}

	assertLines(t, transport.getSent(), []string{"PRIVMSG #dallas :Hello, ronni"})
}
