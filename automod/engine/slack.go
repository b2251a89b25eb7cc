package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/util"
)

type SlackWebhookBody struct {
	Text string `json:"text"`
}

// Sends escalation alerts to a slack channel via "incoming webhook".
//
// The slack incoming webhook must be already configured in the slack workplace.
type SlackNotifier struct {
	SlackWebhookURL string
	Client          *http.Client
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		SlackWebhookURL: webhookURL,
		Client:          util.RobustHTTPClient(),
	}
}

func (n *SlackNotifier) SendEscalation(ctx context.Context, c *MessageContext, rule *configstore.EscalationRule) error {
	msg := fmt.Sprintf("escalation: `%s` for user `%s` in community `%s` (filter: %s, reason: %s)",
		describePunishment(rule), c.Message.AuthorID, c.Message.CommunityID, c.effects.MatchedFilter, c.effects.WarnReason)
	return n.sendSlackMsg(ctx, msg)
}

func (n *SlackNotifier) sendSlackMsg(ctx context.Context, msg string) error {
	// loosely based on: https://golangcode.com/send-slack-messages-without-a-library/

	body, err := json.Marshal(SlackWebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.SlackWebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != 200 || buf.String() != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}
