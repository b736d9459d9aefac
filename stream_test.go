package twitchirc

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMessageStream_Next(t *testing.T) {
	stream := NewMessageStream(1)
	ctx := context.Background()

	go func() {
		stream.Dispatch(ctx, nil, &Message{Command: Command{Type: CommandJoin, Content: "#a"}})
		stream.Dispatch(ctx, nil, &Message{Command: Command{Type: CommandPart, Content: "#a"}})
		stream.Close()
	}()

	var got []CommandType
	for {
		msg, err := stream.Next(ctx)
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		if msg == nil {
			break
		}
		got = append(got, msg.Command.Type)
	}

	if len(got) != 2 || got[0] != CommandJoin || got[1] != CommandPart {
		t.Errorf("got %v, want [JOIN PART]", got)
	}
}

func TestMessageStream_Next_ContextCancel(t *testing.T) {
	stream := NewMessageStream(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := stream.Next(ctx)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestMessageStream_Messages(t *testing.T) {
	stream := NewMessageStream(10)
	ctx := context.Background()

	for _, line := range []string{privmsgHi, privmsgBye} {
		if err := stream.Dispatch(ctx, nil, mustParse(t, line)); err != nil {
			t.Fatalf("Dispatch error: %v", err)
		}
	}
	stream.Close()

	var texts []string
	for msg, err := range stream.Messages(ctx) {
		if err != nil {
			t.Fatalf("Messages error: %v", err)
		}
		pm, _ := msg.Privmsg()
		texts = append(texts, pm.Text)
	}

	if len(texts) != 2 || texts[0] != "hi" || texts[1] != "bye" {
		t.Errorf("texts = %v, want [hi bye]", texts)
	}
}

func TestMessageStream_Dispatch_Closed(t *testing.T) {
	stream := NewMessageStream(1)
	stream.Close()
	stream.Close() // idempotent

	err := stream.Dispatch(context.Background(), nil, &Message{})
	if !errors.Is(err, ErrStreamClosed) {
		t.Errorf("err = %v, want ErrStreamClosed", err)
	}
}

func TestMessageStream_Dispatch_Backpressure(t *testing.T) {
	stream := NewMessageStream(1)
	ctx := context.Background()

	if err := stream.Dispatch(ctx, nil, &Message{}); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	// Buffer is full; the next dispatch waits until the context expires.
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := stream.Dispatch(timeoutCtx, nil, &Message{})
	if err != context.DeadlineExceeded {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestMessageStream_InSession(t *testing.T) {
	stream := NewMessageStream(10)
	s := NewSession(testConfig(), stream, newMockTransport())
	ctx := context.Background()

	if err := s.HandleFrame(ctx, privmsgHi+"\r\n"+privmsgBye+"\r\n"); err != nil {
		t.Fatalf("HandleFrame error: %v", err)
	}

	msg, err := stream.Next(ctx)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if msg.Command.Content != "#dallas :hi" {
		t.Errorf("content = %q, want #dallas :hi", msg.Command.Content)
	}
}
