package sessions

import (
	"context"
	"time"

	"session-sync/core/reconcile"
)

// Titles of the registrant questions at the top of the registration form.
const (
	QuestionName  = "Name"
	QuestionEmail = "Email"
)

// ItemKind is the kind of a form item.
type ItemKind string

const (
	ItemText    ItemKind = "text"
	ItemSection ItemKind = "section"
	ItemChoice  ItemKind = "choice"
)

// FormItem is a question or section of the registration form.
type FormItem struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Kind     ItemKind `json:"kind"`
	Choices  []string `json:"choices,omitempty"`
	Required bool     `json:"required"`
}

// FormResponse is one submitted form, answers keyed by question title.
type FormResponse struct {
	ID        string            `json:"id"`
	Submitted time.Time         `json:"submitted"`
	Email     string            `json:"email"`
	Answers   map[string]string `json:"answers"`
}

// Forms is a form service hosting the registration form.
// Methods wrap provider errors with the error kinds of core/reconcile.
type Forms interface {
	// FormExists reports whether the form is still reachable.
	FormExists(ctx context.Context, formID string) (bool, error)
	// CreateForm creates an empty form and returns its id.
	CreateForm(ctx context.Context, title string) (string, error)
	// ListItems returns the items of the form in order.
	ListItems(ctx context.Context, formID string) ([]FormItem, error)
	// DeleteItems removes the first count items.
	DeleteItems(ctx context.Context, formID string, count int) error
	// AddItems appends items in order.
	AddItems(ctx context.Context, formID string, items []FormItem) error
	// Responses returns the responses submitted after the given time.
	Responses(ctx context.Context, formID string, after time.Time) ([]FormResponse, error)
	// Link returns the URL respondents open.
	Link(formID string) string
}

// BuildFormItems derives the registration form from the sessions: the registrant
// questions, then a section per date holding one choice question per time slot.
// Question titles are the slot labels, which is how submissions are matched back.
func BuildFormItems(rows []reconcile.Row, f reconcile.SlotFormat) []FormItem {
	items := []FormItem{
		{Title: QuestionName, Kind: ItemText, Required: true},
		{Title: QuestionEmail, Kind: ItemText, Required: true},
	}

	for _, section := range reconcile.GroupByDate(reconcile.GroupByTimeSlot(rows, f)) {
		items = append(items, FormItem{Title: section.Date, Kind: ItemSection})
		for _, group := range section.Groups {
			items = append(items, FormItem{
				Title:   group.Slot.String(),
				Kind:    ItemChoice,
				Choices: uniqueStrings(group.Titles()),
			})
		}
	}
	return items
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
