package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Notifier sends alert and achievement notifications to external channels.
type Notifier interface {
	Notify(alerts []Alert) error
	NotifyAchieved(goals []models.Goal) error
}

// slackNotifier sends notifications to a Slack-compatible webhook.
type slackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Notifier that posts to the given webhook URL.
func NewSlackNotifier(webhookURL string) Notifier {
	return &slackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify sends the given alerts to the configured webhook.
// It returns nil without making a request if the alerts slice is empty.
func (s *slackNotifier) Notify(alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return s.post(buildAlertMessage(alerts))
}

// NotifyAchieved announces goals that met their target in the period that
// just ended. It returns nil without making a request if goals is empty.
func (s *slackNotifier) NotifyAchieved(goals []models.Goal) error {
	if len(goals) == 0 {
		return nil
	}
	return s.post(buildAchievedMessage(goals))
}

func (s *slackNotifier) post(msg slackMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling slack message: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func buildAlertMessage(alerts []Alert) slackMessage {
	blocks := []slackBlock{header("dayplan Alert Summary")}
	for i, alert := range alerts {
		if i > 0 {
			blocks = append(blocks, slackBlock{Type: "divider"})
		}
		text := fmt.Sprintf("%s *[%s]* %s\n_%s_",
			severityEmoji(alert.Severity),
			strings.ToUpper(string(alert.Severity)),
			alert.Message,
			alert.TriggeredAt.Format("2006-01-02 15:04 UTC"),
		)
		blocks = append(blocks, section(text))
	}
	return slackMessage{Blocks: blocks}
}

func buildAchievedMessage(goals []models.Goal) slackMessage {
	blocks := []slackBlock{header("dayplan Goals Achieved")}
	for _, g := range goals {
		text := fmt.Sprintf("\U0001f3c6 *%s* %d/%d (%s, %s to %s)",
			g.Name(),
			g.Progress,
			g.Frequency,
			strings.ToLower(string(g.Period)),
			g.Window.Begin.Format(time.DateOnly),
			dueText(g.Window),
		)
		blocks = append(blocks, section(text))
	}
	return slackMessage{Blocks: blocks}
}

func dueText(w models.BeginAndDueDates) string {
	if w.Due == nil {
		return "open"
	}
	return w.Due.Format(time.DateOnly)
}

func header(text string) slackBlock {
	return slackBlock{Type: "header", Text: &slackText{Type: "plain_text", Text: text}}
}

func section(text string) slackBlock {
	return slackBlock{Type: "section", Text: &slackText{Type: "mrkdwn", Text: text}}
}

func severityEmoji(severity AlertSeverity) string {
	switch severity {
	case SeverityHigh:
		return "\U0001f534"
	case SeverityMedium:
		return "\U0001f7e1"
	case SeverityLow:
		return "\U0001f535"
	default:
		return "❓"
	}
}
