package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
	err   error
}

func (f *fakeExec) record(name string, args ...string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool                             { return f.loggedIn }
func (f *fakeExec) Home(ctx context.Context) error               { return f.record("home") }
func (f *fakeExec) Auth(ctx context.Context) error               { return f.record("auth") }
func (f *fakeExec) Register(ctx context.Context) error           { return f.record("register") }
func (f *fakeExec) AddPerson(ctx context.Context) error          { return f.record("add") }
func (f *fakeExec) People(ctx context.Context) error             { return f.record("people") }
func (f *fakeExec) Credits(ctx context.Context) error            { return f.record("credits") }
func (f *fakeExec) Navigate(ctx context.Context, p string) error { return f.record("go", p) }
func (f *fakeExec) Delete(ctx context.Context, id string) error  { return f.record("delete", id) }
func (f *fakeExec) Generate(ctx context.Context, id string) error {
	return f.record("generate", id)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func captureREPL(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			parts = append(parts, strings.TrimSpace(strings.ReplaceAll(toString(v), "\n", " ")))
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	printed := captureREPL(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"add",
		"l",
		"people",
		"generate abc",
		"delete abc",
		"go /people",
		"credits",
		"home",
		"logout",
		"foobar",
		"exit",
		"add",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{"login", "add", "people", "people", "generate", "delete", "go", "credits", "home", "logout"}, exec.calls)
	assert.Equal(t, []string{"abc", "abc", "/people"}, exec.args)
	assert.Contains(t, *printed, helpSignedOut)
	assert.Contains(t, *printed, helpSignedIn)
	assert.Contains(t, *printed, "Unknown command: foobar")
	assert.Contains(t, *printed, "Bye!")
	assert.Contains(t, *printed, "gk status >")
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	printed := captureREPL(t)

	input := strings.NewReader("delete\ngenerate\ngo\n\nquit\n")
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(input))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *printed, "Usage: delete <id>")
	assert.Contains(t, *printed, "Usage: generate <id>")
	assert.Contains(t, *printed, "Usage: go <path>")
}

func TestRunREPL_StopsOnScreenInputError(t *testing.T) {
	captureREPL(t)

	exec := &fakeExec{err: io.EOF}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("add\npeople\n")))

	assert.Equal(t, []string{"add"}, exec.calls)
}

func TestRunREPL_EOF(t *testing.T) {
	captureREPL(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))
	assert.Empty(t, exec.calls)
}
