package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Filter(ctx context.Context, status string) error
	Sort(ctx context.Context, arg string) error
	Clear(ctx context.Context) error

	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	Stats(ctx context.Context) error
	Export(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, refresh, search <term>, status <status|all>, sort [off], clear, " +
		"show <id>, add, edit <id>, delete <id>, stats, export [file [path]|s3], logout, exit"
)

// runREPL starts a simple read–eval–print loop for the job tracker CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// The loop exits on scanner EOF or when the user types "exit" or "quit".
//
// Commands that need an id print a usage line when it is missing. "search"
// takes the rest of the line as the term, so multi-word terms work.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("jt %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		withID := func(name string, fn func(context.Context, string) error) {
			if len(args) == 0 {
				printlnFn("Usage:", name, "<id>")
				return
			}
			_ = fn(ctx, args[0])
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "search":
			_ = a.Search(ctx, strings.TrimSpace(strings.TrimPrefix(line, parts[0])))

		case "status":
			_ = a.Filter(ctx, strings.Join(args, " "))

		case "sort":
			_ = a.Sort(ctx, strings.Join(args, " "))

		case "clear":
			_ = a.Clear(ctx)

		case "show":
			withID("show", a.Show)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			withID("edit", a.Edit)

		case "delete", "rm":
			withID("delete", a.Delete)

		case "stats":
			_ = a.Stats(ctx)

		case "export":
			_ = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
