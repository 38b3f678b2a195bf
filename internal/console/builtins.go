package console

import (
	"context"
	"fmt"
	"strings"

	"devconsole/internal/variables"
)

const varUsage = "Usage: /var [list|set <name> <value>|get <name>|delete <name>]"

func (c *Console) runBuiltin(ctx context.Context, name string, args []string) error {
	switch name {
	case "clear":
		c.store.Clear()
		return nil
	case "export":
		return c.exportLogs(ctx, args)
	case "help":
		c.Dev("DevConsole Help", c.HelpDocument())
		return nil
	case "var":
		return c.varCommand(args)
	default:
		return &UnknownCommandError{Name: name}
	}
}

// exportLogs hands the current snapshot to the exporter. An optional argument
// picks the format.
func (c *Console) exportLogs(ctx context.Context, args []string) error {
	format := ""
	if len(args) > 0 {
		format = args[0]
	}

	entries := c.store.All()
	path, err := c.exporter.Export(ctx, entries, format)
	if err != nil {
		c.Error("Export failed", err)
		return err
	}
	c.Dev(fmt.Sprintf("Exported %d logs to file", len(entries)), path)
	return nil
}

func (c *Console) varCommand(args []string) error {
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "list"):
		c.listVariables()
	case args[0] == "set" && len(args) >= 3:
		name := args[1]
		if err := variables.ValidateName(name); err != nil {
			c.Dev(fmt.Sprintf("Cannot set variable: %v", err))
			return err
		}
		value := variables.ParseLiteral(strings.Join(args[2:], " "))
		c.vars.Set(name, value)
		c.Dev(fmt.Sprintf("Variable set: %s = %s", name, value.JSON()))
	case args[0] == "get" && len(args) == 2:
		if value, ok := c.vars.Get(args[1]); ok {
			c.Dev(fmt.Sprintf("%s = %s", args[1], value.JSON()))
		} else {
			c.Dev(fmt.Sprintf("Variable '%s' is not defined", args[1]))
		}
	case args[0] == "delete" && len(args) == 2:
		if c.vars.Delete(args[1]) {
			c.Dev(fmt.Sprintf("Variable '%s' deleted", args[1]))
		} else {
			c.Dev(fmt.Sprintf("Variable '%s' not found", args[1]))
		}
	default:
		c.Dev(varUsage)
	}
	return nil
}

func (c *Console) listVariables() {
	names := c.vars.Names()
	if len(names) == 0 {
		c.Dev("No variables defined")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Variables (%d) ===", len(names))
	for _, name := range names {
		value, ok := c.vars.Get(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s = %s", name, value.JSON())
	}
	c.Dev("Variables", b.String())
}
