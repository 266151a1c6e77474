package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

const (
	usersPath  = "/rest/v1/users"
	peoplePath = "/rest/v1/people"
)

type profileRow struct {
	ID                 string                    `json:"id"`
	Email              string                    `json:"email"`
	CommunicationStyle models.CommunicationStyle `json:"communication_style"`
	Credits            int                       `json:"credits"`
}

type personRow struct {
	models.PersonInput
	UserID string `json:"user_id"`
}

func notFound(what string) error {
	return &gateway.APIError{Status: http.StatusNotFound, Message: what + " not found"}
}

func (c *Client) InsertUserProfile(ctx context.Context, id, email string, style models.CommunicationStyle, credits int) error {
	row := profileRow{ID: id, Email: email, CommunicationStyle: style, Credits: credits}
	return c.doJSON(ctx, request{method: http.MethodPost, path: usersPath, prefer: "return=minimal", payload: row}, nil)
}

func (c *Client) FetchUserProfile(ctx context.Context, id string) (models.User, error) {
	q := url.Values{"id": {eq(id)}, "select": {"*"}}
	var rows []models.User
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: usersPath, query: q}, &rows); err != nil {
		return models.User{}, err
	}
	if len(rows) == 0 {
		return models.User{}, notFound("profile")
	}
	return rows[0], nil
}

func (c *Client) UpdateUserCredits(ctx context.Context, id string, credits int) error {
	q := url.Values{"id": {eq(id)}}
	payload := map[string]int{"credits": credits}
	return c.doJSON(ctx, request{method: http.MethodPatch, path: usersPath, query: q, prefer: "return=minimal", payload: payload}, nil)
}

func (c *Client) InsertPerson(ctx context.Context, in models.PersonInput, ownerID string) (models.Person, error) {
	if in.Interests == nil {
		in.Interests = []string{}
	}
	if in.PersonalityTraits == nil {
		in.PersonalityTraits = []string{}
	}
	row := personRow{PersonInput: in, UserID: ownerID}
	var rows []models.Person
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: peoplePath, prefer: "return=representation", payload: row}, &rows); err != nil {
		return models.Person{}, err
	}
	if len(rows) == 0 {
		return models.Person{}, notFound("inserted contact")
	}
	return rows[0], nil
}

func (c *Client) ListPeople(ctx context.Context, ownerID string) ([]models.Person, error) {
	q := url.Values{"user_id": {eq(ownerID)}, "select": {"*"}, "order": {"name.asc"}}
	rows := make([]models.Person, 0)
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: peoplePath, query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) DeletePerson(ctx context.Context, id string) error {
	q := url.Values{"id": {eq(id)}}
	return c.doJSON(ctx, request{method: http.MethodDelete, path: peoplePath, query: q}, nil)
}

func (c *Client) FetchPerson(ctx context.Context, id string) (models.Person, error) {
	q := url.Values{"id": {eq(id)}, "select": {"*"}}
	var rows []models.Person
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: peoplePath, query: q}, &rows); err != nil {
		return models.Person{}, err
	}
	if len(rows) == 0 {
		return models.Person{}, notFound("contact")
	}
	return rows[0], nil
}
