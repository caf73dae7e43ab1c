package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"session-sync/core/reconcile"

	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
)

// GoogleForms is a Forms service backed by the Google Forms API.
type GoogleForms struct {
	service  *forms.Service
	classify func(error) error
}

// NewGoogleForms creates the Google Forms provider. classify maps API errors to error
// kinds; it may be nil.
func NewGoogleForms(ctx context.Context, classify func(error) error, opts ...option.ClientOption) (*GoogleForms, error) {
	service, err := forms.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create forms service: %w", err)
	}
	if classify == nil {
		classify = func(err error) error { return err }
	}
	return &GoogleForms{service: service, classify: classify}, nil
}

func (g *GoogleForms) FormExists(ctx context.Context, formID string) (bool, error) {
	_, err := g.service.Forms.Get(formID).Context(ctx).Do()
	if err == nil {
		return true, nil
	}
	err = g.classify(err)
	if errors.Is(err, reconcile.ErrResourceNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to get form: %w", err)
}

func (g *GoogleForms) CreateForm(ctx context.Context, title string) (string, error) {
	form, err := g.service.Forms.Create(&forms.Form{
		Info: &forms.Info{Title: title, DocumentTitle: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create form: %w", g.classify(err))
	}
	return form.FormId, nil
}

func (g *GoogleForms) ListItems(ctx context.Context, formID string) ([]FormItem, error) {
	form, err := g.service.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", g.classify(err))
	}

	items := make([]FormItem, 0, len(form.Items))
	for _, item := range form.Items {
		items = append(items, fromFormsItem(item))
	}
	return items, nil
}

// DeleteItems deletes from the last index down so earlier indexes stay valid.
func (g *GoogleForms) DeleteItems(ctx context.Context, formID string, count int) error {
	if count <= 0 {
		return nil
	}
	requests := make([]*forms.Request, 0, count)
	for i := count - 1; i >= 0; i-- {
		requests = append(requests, &forms.Request{
			DeleteItem: &forms.DeleteItemRequest{Location: formLocation(i)},
		})
	}
	return g.batch(ctx, formID, requests, "delete items")
}

func (g *GoogleForms) AddItems(ctx context.Context, formID string, items []FormItem) error {
	if len(items) == 0 {
		return nil
	}
	requests := make([]*forms.Request, 0, len(items))
	for i, item := range items {
		requests = append(requests, &forms.Request{
			CreateItem: &forms.CreateItemRequest{Item: toFormsItem(item), Location: formLocation(i)},
		})
	}
	return g.batch(ctx, formID, requests, "add items")
}

func (g *GoogleForms) Responses(ctx context.Context, formID string, after time.Time) ([]FormResponse, error) {
	form, err := g.service.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", g.classify(err))
	}
	titles := make(map[string]string)
	for _, item := range form.Items {
		if item.QuestionItem != nil && item.QuestionItem.Question != nil {
			titles[item.QuestionItem.Question.QuestionId] = item.Title
		}
	}

	var out []FormResponse
	pageToken := ""
	for {
		call := g.service.Forms.Responses.List(formID).Context(ctx)
		if !after.IsZero() {
			// The filter has second precision; callers drop what they already saw.
			call = call.Filter("timestamp > " + after.UTC().Truncate(time.Second).Format(time.RFC3339))
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list responses: %w", g.classify(err))
		}
		for _, r := range resp.Responses {
			out = append(out, fromFormsResponse(r, titles))
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (g *GoogleForms) Link(formID string) string {
	return "https://docs.google.com/forms/d/" + formID + "/viewform"
}

func (g *GoogleForms) batch(ctx context.Context, formID string, requests []*forms.Request, what string) error {
	_, err := g.service.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, g.classify(err))
	}
	return nil
}

// formLocation forces the index onto the wire; index 0 would otherwise be omitted.
func formLocation(index int) *forms.Location {
	return &forms.Location{Index: int64(index), ForceSendFields: []string{"Index"}}
}

func toFormsItem(item FormItem) *forms.Item {
	out := &forms.Item{Title: item.Title}
	switch item.Kind {
	case ItemSection:
		out.PageBreakItem = &forms.PageBreakItem{}
	case ItemChoice:
		options := make([]*forms.Option, 0, len(item.Choices))
		for _, choice := range item.Choices {
			options = append(options, &forms.Option{Value: choice})
		}
		out.QuestionItem = &forms.QuestionItem{Question: &forms.Question{
			Required:       item.Required,
			ChoiceQuestion: &forms.ChoiceQuestion{Type: "RADIO", Options: options},
		}}
	default:
		out.QuestionItem = &forms.QuestionItem{Question: &forms.Question{
			Required:     item.Required,
			TextQuestion: &forms.TextQuestion{},
		}}
	}
	return out
}

func fromFormsItem(item *forms.Item) FormItem {
	out := FormItem{ID: item.ItemId, Title: item.Title, Kind: ItemText}
	switch {
	case item.PageBreakItem != nil:
		out.Kind = ItemSection
	case item.QuestionItem != nil && item.QuestionItem.Question != nil:
		q := item.QuestionItem.Question
		out.Required = q.Required
		if q.ChoiceQuestion != nil {
			out.Kind = ItemChoice
			for _, opt := range q.ChoiceQuestion.Options {
				out.Choices = append(out.Choices, opt.Value)
			}
		}
	}
	return out
}

func fromFormsResponse(r *forms.FormResponse, titles map[string]string) FormResponse {
	out := FormResponse{
		ID:      r.ResponseId,
		Email:   r.RespondentEmail,
		Answers: make(map[string]string),
	}
	out.Submitted, _ = time.Parse(time.RFC3339Nano, r.LastSubmittedTime)

	for qid, answer := range r.Answers {
		title, ok := titles[qid]
		if !ok || answer.TextAnswers == nil || len(answer.TextAnswers.Answers) == 0 {
			continue
		}
		out.Answers[title] = answer.TextAnswers.Answers[0].Value
	}
	return out
}
