package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Home(ctx context.Context) error
	Navigate(ctx context.Context, path string) error
	Auth(ctx context.Context) error
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	AddPerson(ctx context.Context) error
	People(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Generate(ctx context.Context, id string) error
	Credits(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: home, auth, login, register, go <path>, help, exit"
	helpSignedIn  = "Available commands: (l)ist, add, delete <id>, generate <id>, credits, home, go <path>, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the greetkeeper client.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, on an input error returned by a screen, or
// when the user types "exit" or "quit".
//
//	Always:
//	  - help            show available commands
//	  - home            what greetkeeper does
//	  - go <path>       open /, /auth, /add-person, /people or /generate/<id>
//	  - exit | quit     leave the program
//
//	Signed out:
//	  - auth            sign in or sign up, switchable on the screen
//	  - login           sign in
//	  - register        sign up
//
//	Signed in:
//	  - people | list | l   list contacts with birthday countdowns
//	  - add                 add a contact
//	  - delete <id>         delete a contact (asks for confirmation)
//	  - generate <id>       open the greeting screen for a contact
//	  - credits             refresh and show the credit balance
//	  - logout              sign out
//
// Screens print their own errors; only input errors come back here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gk %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "home":
			err = a.Home(ctx)

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <path>")
				continue
			}
			err = a.Navigate(ctx, args[0])

		case "auth":
			err = a.Auth(ctx)

		case "login":
			err = a.Login(ctx)

		case "register":
			err = a.Register(ctx)

		case "add":
			err = a.AddPerson(ctx)

		case "people", "list", "l":
			err = a.People(ctx)

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			err = a.Delete(ctx, args[0])

		case "generate":
			if len(args) == 0 {
				printlnFn("Usage: generate <id>")
				continue
			}
			err = a.Generate(ctx, args[0])

		case "credits":
			err = a.Credits(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
