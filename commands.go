package twitchirc

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// DefaultCommandPrefix marks a chat message as a command.
const DefaultCommandPrefix = "!"

// ChatCommand is a command users invoke by posting its prefixed name in chat.
type ChatCommand interface {
	Name() string
	Run(ctx context.Context, msg *PrivateMessage, args []string) (string, error)
}

// CommandSet is a Dispatcher that runs chat commands and posts their
// responses back to the channel. It is safe for concurrent use.
type CommandSet struct {
	mu       sync.RWMutex
	prefix   string
	commands map[string]ChatCommand
}

// NewCommandSet creates an empty command set using DefaultCommandPrefix.
func NewCommandSet() *CommandSet {
	return &CommandSet{
		prefix:   DefaultCommandPrefix,
		commands: make(map[string]ChatCommand),
	}
}

// SetPrefix changes the prefix that marks a command.
func (c *CommandSet) SetPrefix(prefix string) {
	c.mu.Lock()
	c.prefix = prefix
	c.mu.Unlock()
}

// Add registers a command, replacing any command with the same name.
func (c *CommandSet) Add(cmd ChatCommand) {
	c.mu.Lock()
	c.commands[cmd.Name()] = cmd
	c.mu.Unlock()
}

// Get retrieves a command by name.
func (c *CommandSet) Get(name string) (ChatCommand, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Names returns the registered command names in sorted order.
func (c *CommandSet) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Call runs a command by name.
func (c *CommandSet) Call(ctx context.Context, name string, msg *PrivateMessage, args []string) (string, error) {
	cmd, ok := c.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}
	return cmd.Run(ctx, msg, args)
}

// Dispatch implements Dispatcher. Messages that are not commands, and
// commands that are not registered, are ignored. A non-empty response is
// posted to the channel the command came from.
func (c *CommandSet) Dispatch(ctx context.Context, out Sender, msg *Message) error {
	pm, ok := msg.Privmsg()
	if !ok {
		return nil
	}

	c.mu.RLock()
	prefix := c.prefix
	c.mu.RUnlock()

	body, ok := strings.CutPrefix(pm.Text, prefix)
	if !ok {
		return nil
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := c.Get(fields[0])
	if !ok {
		return nil
	}

	response, err := cmd.Run(ctx, pm, fields[1:])
	if err != nil {
		return fmt.Errorf("command %s: %w", fields[0], err)
	}
	if response == "" {
		return nil
	}

	return out.Send(ctx, Privmsg(pm.Channel, response))
}

// FuncCommand wraps a function as a ChatCommand.
type FuncCommand struct {
	name string
	fn   func(ctx context.Context, msg *PrivateMessage, args []string) (string, error)
}

// NewFuncCommand creates a command from a function.
func NewFuncCommand(name string, fn func(ctx context.Context, msg *PrivateMessage, args []string) (string, error)) *FuncCommand {
	return &FuncCommand{name: name, fn: fn}
}

// Name returns the command name.
func (f *FuncCommand) Name() string {
	return f.name
}

// Run invokes the command function.
func (f *FuncCommand) Run(ctx context.Context, msg *PrivateMessage, args []string) (string, error) {
	return f.fn(ctx, msg, args)
}
