// Package trello files extracted publications as cards on a Trello list.
package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"legal-publication-bot/internal/httputil"
	"legal-publication-bot/internal/logging"
	"legal-publication-bot/internal/models"
)

const trelloBaseURL = "https://api.trello.com/1"

// Standard board labels applied to created cards. Missing ones are created
// by EnsureLabels.
var standardLabels = []struct {
	key   string
	names []string
	color string
}{
	{"a_revisar", []string{"🔴 A REVISAR", "A REVISAR"}, "red"},
	{"revisado", []string{"🟢 REVISADO", "REVISADO"}, "green"},
	{"urgente", []string{"⚡ URGENTE", "URGENTE"}, "yellow"},
	{"prazo_implicito", []string{"⚠️ PRAZO IMPLÍCITO", "PRAZO IMPLÍCITO", "PRAZO IMPLICITO"}, "orange"},
}

// Client drives the Trello REST API with key+token authentication
type Client struct {
	apiKey  string
	token   string
	boardID string
	listID  string
	baseURL string
	client  *http.Client
	labels  map[string]string // label key -> Trello label id
}

// NewClient creates a Trello client for the configured board and list
func NewClient(cfg models.TrelloConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		token:   cfg.Token,
		boardID: cfg.BoardID,
		listID:  cfg.ListID,
		baseURL: trelloBaseURL,
		client:  httputil.NewClient(15 * time.Second),
		labels:  make(map[string]string),
	}
}

type trelloLabel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trelloCard struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Ping verifies the credentials and target list are reachable
func (c *Client) Ping(ctx context.Context) error {
	var list struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/lists/"+c.listID, url.Values{"fields": {"name"}}, &list); err != nil {
		return fmt.Errorf("trello list %s unreachable: %w", c.listID, err)
	}
	return nil
}

// EnsureLabels finds or creates the standard board labels. Failures here
// are not fatal; cards are simply created without the missing labels.
func (c *Client) EnsureLabels(ctx context.Context) {
	if c.boardID == "" {
		return
	}

	var existing []trelloLabel
	if err := c.get(ctx, "/boards/"+c.boardID+"/labels", nil, &existing); err != nil {
		logging.Log.Warnf("Error listing board labels: %v", err)
		return
	}

	for _, want := range standardLabels {
		for _, label := range existing {
			if matchesLabel(label.Name, want.names) {
				c.labels[want.key] = label.ID
				break
			}
		}
		if _, ok := c.labels[want.key]; ok {
			continue
		}

		var created trelloLabel
		params := url.Values{
			"idBoard": {c.boardID},
			"name":    {want.names[0]},
			"color":   {want.color},
		}
		if err := c.post(ctx, "/labels", params, &created); err != nil {
			logging.Log.Warnf("Error creating label %q: %v", want.names[0], err)
			continue
		}
		c.labels[want.key] = created.ID
	}
}

func matchesLabel(name string, candidates []string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, candidate := range candidates {
		cu := strings.ToUpper(strings.TrimSpace(candidate))
		if strings.Contains(upper, cu) || strings.Contains(cu, upper) {
			return true
		}
	}
	return false
}

// CreateCard files one extraction as a card with a computed due date,
// labels and a review checklist. No idempotency key is sent, so a retried
// call after a transient failure may create a duplicate card.
func (c *Client) CreateCard(ctx context.Context, extraction *models.Extraction, notice *models.Notice) (*models.Card, error) {
	title := BuildTitle(extraction)

	params := url.Values{
		"idList": {c.listID},
		"name":   {title},
		"desc":   {buildDescription(extraction, notice)},
	}

	if !extraction.Deadline.IsZero() {
		d := extraction.Deadline
		due := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
		params.Set("due", due.Format("2006-01-02T15:04:05.000Z"))
	}

	if labelIDs := c.cardLabels(extraction); len(labelIDs) > 0 {
		params.Set("idLabels", strings.Join(labelIDs, ","))
	}

	var created trelloCard
	if err := c.post(ctx, "/cards", params, &created); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	// Checklist is a convenience; its failure does not fail the card.
	if err := c.createChecklist(ctx, created.ID); err != nil {
		logging.Log.Warnf("Error creating checklist for card %s: %v", created.ID, err)
	}

	return &models.Card{ID: created.ID, URL: created.URL, Title: title}, nil
}

func (c *Client) cardLabels(extraction *models.Extraction) []string {
	var ids []string
	if id, ok := c.labels["a_revisar"]; ok {
		ids = append(ids, id)
	}
	if extraction.Urgent {
		if id, ok := c.labels["urgente"]; ok {
			ids = append(ids, id)
		}
	}
	if extraction.DeadlineImplicit {
		if id, ok := c.labels["prazo_implicito"]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

var checklistItems = []string{
	"Revisar prazo calculado",
	"Conferir dados extraídos",
	"Verificar texto integral",
	"Preparar providências",
	"Mudar para 🟢 REVISADO",
}

func (c *Client) createChecklist(ctx context.Context, cardID string) error {
	var checklist struct {
		ID string `json:"id"`
	}
	params := url.Values{
		"idCard": {cardID},
		"name":   {"Ações Necessárias"},
	}
	if err := c.post(ctx, "/checklists", params, &checklist); err != nil {
		return err
	}

	for _, item := range checklistItems {
		itemParams := url.Values{"name": {item}}
		if err := c.post(ctx, "/checklists/"+checklist.ID+"/checkItems", itemParams, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	params.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	params.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("trello returned %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
