// Package commands is the closed set of console commands the backend may
// send. Every command string transmitted over RCON is rendered here first.
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apparentlyarhm/validator/errs"
)

var (
	// ErrUnknownCommand is returned by Lookup for names outside the catalog.
	ErrUnknownCommand = errors.New("commands: unknown command")

	// ErrArity is returned when the argument count does not match the template.
	ErrArity = errors.New("commands: wrong number of arguments")

	// ErrInvalidArgument is returned for empty arguments and arguments with
	// control characters, which could smuggle a second command.
	ErrInvalidArgument = errors.New("commands: invalid argument")
)

// A Command is one catalog entry.
type Command struct {
	Name string `json:"name"`

	// Template is a printf-style format taking Arity %s verbs.
	Template string `json:"format"`
	Arity    int    `json:"arity"`

	// Enabled is false for commands that are defined but not supported yet.
	Enabled bool `json:"enabled"`

	// AdminOnly is read by the caller's authorization check.
	AdminOnly bool `json:"admin_only"`
}

func newCommand(name, template string, enabled, adminOnly bool) Command {
	return Command{
		Name:      name,
		Template:  template,
		Arity:     strings.Count(template, "%s"),
		Enabled:   enabled,
		AdminOnly: adminOnly,
	}
}

var catalog = []Command{
	// players
	newCommand("KICK", "kick %s", true, false),
	newCommand("BAN", "ban %s", true, true),
	newCommand("PARDON", "pardon %s", true, true),
	newCommand("TELEPORT", "tp %s %s", true, false),

	// world
	newCommand("SAY", "say %s", true, false),
	newCommand("TIME_SET", "time set %s", true, false),
	newCommand("WEATHER_SET", "weather %s", true, false),
	newCommand("STOP", "stop", true, true),

	// not supported yet
	newCommand("WHITELIST_ADD", "whitelist add %s", false, true),
	newCommand("WHITELIST_REMOVE", "whitelist remove %s", false, true),
	newCommand("WHITELIST_RELOAD", "whitelist reload", false, true),
	newCommand("GIVE", "give %s %s %s", false, true),
}

var byName = func() map[string]Command {
	m := make(map[string]Command, len(catalog))
	for _, c := range catalog {
		m[c.Name] = c
	}
	return m
}()

// Lookup finds a command by name, ignoring case.
func Lookup(name string) (Command, error) {
	c, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return c, nil
}

// All returns a copy of the catalog in declaration order.
func All() []Command {
	out := make([]Command, len(catalog))
	copy(out, catalog)
	return out
}

// Format renders the command line. Disabled commands fail with
// errs.ErrUnsupportedCommand before anything else is checked.
func (c Command) Format(args ...string) (string, error) {
	if !c.Enabled {
		return "", fmt.Errorf("command %s is not enabled: %w", c.Name, errs.ErrUnsupportedCommand)
	}
	if len(args) != c.Arity {
		return "", fmt.Errorf("%w: %s takes %d, got %d", ErrArity, c.Name, c.Arity, len(args))
	}

	values := make([]interface{}, len(args))
	for i, a := range args {
		if err := checkArgument(a); err != nil {
			return "", fmt.Errorf("%s argument %d: %w", c.Name, i+1, err)
		}
		values[i] = a
	}
	return fmt.Sprintf(c.Template, values...), nil
}

func checkArgument(a string) error {
	if strings.TrimSpace(a) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidArgument)
	}
	for _, r := range a {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control character %U", ErrInvalidArgument, r)
		}
	}
	return nil
}
