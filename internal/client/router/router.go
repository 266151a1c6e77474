// Package router maps the client's navigation paths onto screens.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type Route int

const (
	Home Route = iota
	Auth
	AddPerson
	People
	Generate
)

var ErrUnknownRoute = errors.New("unknown route")

// Location is a parsed path. ID is set for Generate only.
type Location struct {
	Route Route
	ID    string
}

func (r Route) String() string {
	switch r {
	case Home:
		return "home"
	case Auth:
		return "auth"
	case AddPerson:
		return "add-person"
	case People:
		return "people"
	case Generate:
		return "generate"
	}
	return fmt.Sprintf("route(%d)", int(r))
}

// RequiresUser reports whether the screen is only available when signed in.
func (r Route) RequiresUser() bool {
	return r == AddPerson || r == People || r == Generate
}

// Parse accepts "/", "/auth", "/add-person", "/people" and "/generate/:id".
// Trailing slashes are ignored.
func Parse(path string) (Location, error) {
	p := strings.TrimSpace(path)
	if p != "/" {
		p = strings.TrimRight(p, "/")
	}

	switch p {
	case "", "/":
		return Location{Route: Home}, nil
	case "/auth":
		return Location{Route: Auth}, nil
	case "/add-person":
		return Location{Route: AddPerson}, nil
	case "/people":
		return Location{Route: People}, nil
	}

	if rest, ok := strings.CutPrefix(p, "/generate/"); ok && rest != "" && !strings.Contains(rest, "/") {
		id, err := url.PathUnescape(rest)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
		}
		return Location{Route: Generate, ID: id}, nil
	}
	return Location{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}

// Path renders l back into a navigation path.
func (l Location) Path() string {
	switch l.Route {
	case Auth:
		return "/auth"
	case AddPerson:
		return "/add-person"
	case People:
		return "/people"
	case Generate:
		return GeneratePath(l.ID)
	}
	return "/"
}

func GeneratePath(id string) string {
	return "/generate/" + url.PathEscape(id)
}
