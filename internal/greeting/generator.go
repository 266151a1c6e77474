// Package greeting turns a contact profile into greeting text.
//
// Generator is the seam a real text-generation service would implement;
// TemplateGenerator fills a fixed template and never calls out.
package greeting

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

// Request is the input of one generation.
type Request struct {
	Person models.Person
	Style  models.CommunicationStyle
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// TemplateGenerator substitutes the contact's name, relationship, interests
// and traits into a fixed template. The opening and closing lines depend on
// the requested style.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

var openings = map[models.CommunicationStyle]string{
	models.StyleFormal: "Dear %s,\nPlease accept my warmest congratulations on your birthday!",
	models.StyleCasual: "Dear %s!\nHappy birthday to you!",
	models.StyleFunny:  "Hey %s!\nAnother lap around the sun, and you still look brand new!",
	models.StylePoetic: "Dear %s,\nAnother year unfolds for you like a song!",
}

var closings = map[models.CommunicationStyle]string{
	models.StyleFormal: "With sincere respect and best wishes.",
	models.StyleCasual: "Have a wonderful day!",
	models.StyleFunny:  "Now go eat some cake before anyone counts the candles!",
	models.StylePoetic: "May every day ahead be as bright as you are.",
}

func (g *TemplateGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	style := req.Style
	if !style.Valid() {
		style = models.DefaultStyle
	}

	p := req.Person
	var b strings.Builder
	fmt.Fprintf(&b, openings[style], p.Name)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "As your %s, I want to wish you happiness, health and success in everything. ",
		strings.ToLower(p.Relationship))
	fmt.Fprintf(&b, "May your passion for %s bring you even more joy, ", joinOr(p.Interests, "the things you love"))
	fmt.Fprintf(&b, "and may your %s always help you reach your goals.", joinOr(p.PersonalityTraits, "wonderful character"))
	b.WriteString("\n\n")
	b.WriteString(closings[style])

	return b.String(), nil
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
