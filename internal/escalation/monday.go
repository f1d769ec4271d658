package escalation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"
)

// BoardClient is the task-board contract consumed by the escalation service.
type BoardClient interface {
	// CreateTask creates an item on the board and returns its id.
	CreateTask(ctx context.Context, title string, boardID int64, groupID string) (string, error)
	// AddComment attaches an update to an existing item.
	AddComment(ctx context.Context, itemID, body string) error
}

// MondayClient talks to the monday.com GraphQL API. A nil MondayClient means
// no token is configured; the service treats that as an upstream failure.
type MondayClient struct {
	apiURL string
	token  string
	http   *http.Client
	log    *logger.Logger
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type createItemResponse struct {
	Data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type createUpdateResponse struct {
	Data struct {
		CreateUpdate struct {
			ID string `json:"id"`
		} `json:"create_update"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// NewMondayClient creates the board client, or nil when no token is configured.
func NewMondayClient(cfg config.MondayConfig, log *logger.Logger) *MondayClient {
	if cfg.GetMondayAPIToken() == "" {
		return nil
	}

	return &MondayClient{
		apiURL: cfg.GetMondayAPIURL(),
		token:  cfg.GetMondayAPIToken(),
		http:   &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// CreateTask runs the create_item mutation and returns the new item id.
func (c *MondayClient) CreateTask(ctx context.Context, title string, boardID int64, groupID string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("board client not configured")
	}

	query := fmt.Sprintf(
		`mutation { create_item (board_id: %d, group_id: "%s", item_name: "%s") { id } }`,
		boardID, escapeGraphQLString(groupID), escapeGraphQLString(title),
	)

	var resp createItemResponse
	if err := c.execute(ctx, query, &resp); err != nil {
		return "", err
	}
	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("board api error: %s", resp.Errors[0].Message)
	}
	if resp.Data.CreateItem.ID == "" {
		return "", fmt.Errorf("board api returned no item id")
	}

	c.log.Info("board task created", "item_id", resp.Data.CreateItem.ID, "board_id", boardID)
	return resp.Data.CreateItem.ID, nil
}

// AddComment runs the create_update mutation against an existing item.
func (c *MondayClient) AddComment(ctx context.Context, itemID, body string) error {
	if c == nil {
		return fmt.Errorf("board client not configured")
	}
	// Item ids are numeric; anything else would splice into the mutation.
	if !isNumericID(itemID) {
		return fmt.Errorf("invalid item id %q", itemID)
	}

	query := fmt.Sprintf(
		`mutation { create_update (item_id: %s, body: "%s") { id } }`,
		itemID, escapeGraphQLString(body),
	)

	var resp createUpdateResponse
	if err := c.execute(ctx, query, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("board api error: %s", resp.Errors[0].Message)
	}
	if resp.Data.CreateUpdate.ID == "" {
		return fmt.Errorf("board api returned no update id")
	}

	c.log.Info("board comment added", "item_id", itemID)
	return nil
}

func (c *MondayClient) execute(ctx context.Context, query string, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("marshal board query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("board request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("board api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode board response: %w", err)
	}
	return nil
}

// isNumericID reports whether s is a non-empty run of decimal digits.
func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// escapeGraphQLString makes a value safe for inline use in a quoted GraphQL
// string literal.
func escapeGraphQLString(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", ``,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}
