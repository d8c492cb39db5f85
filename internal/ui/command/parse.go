package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nhle/nphdash/internal/model"
)

// Name identifies a palette command.
type Name string

const (
	Sections   Name = "sections"
	Metas      Name = "metas"
	Home       Name = "home"
	Reload     Name = "reload"
	Inactive   Name = "inactive"
	MetaStatus Name = "meta-status"
	Quit       Name = "quit"
)

// Entry describes a command for help and completion.
type Entry struct {
	Name    Name
	Usage   string
	Summary string
}

// Catalog lists every command the palette understands.
var Catalog = []Entry{
	{Home, "home", "go to the dashboard"},
	{Sections, "sections", "go to sections"},
	{Metas, "metas", "go to metas"},
	{Reload, "reload", "reload the current page"},
	{Inactive, "inactive", "toggle active/inactive on the current page"},
	{MetaStatus, "meta-status <id> <A|I>", "set the status of one meta"},
	{Quit, "quit", "exit"},
}

// aliases maps shorthand to canonical names.
var aliases = map[string]Name{
	"q":       Quit,
	"exit":    Quit,
	"refresh": Reload,
	"dash":    Home,
}

// Command is a parsed palette line.
type Command struct {
	Name   Name
	ID     int64
	Status model.Status
}

// Parse turns a palette line into a Command.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	name := Name(strings.ToLower(fields[0]))
	if alias, ok := aliases[string(name)]; ok {
		name = alias
	}

	switch name {
	case Sections, Metas, Home, Reload, Inactive, Quit:
		if len(fields) > 1 {
			return Command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return Command{Name: name}, nil

	case MetaStatus:
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("usage: meta-status <id> <A|I>")
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || id <= 0 {
			return Command{}, fmt.Errorf("invalid meta id %q", fields[1])
		}
		st, err := model.ParseStatus(fields[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Name: MetaStatus, ID: id, Status: st}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}
