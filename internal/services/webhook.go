package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []webhookField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

// Notifier posts alert embeds to a configured webhook URL. Delivery is
// best-effort; failures are logged and dropped.
type Notifier struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

func NewNotifier(url string, log *logrus.Logger) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (n *Notifier) send(embed webhookEmbed) {
	if n.url == "" {
		return
	}

	embed.Timestamp = time.Now().Format(time.RFC3339)

	body, err := json.Marshal(webhookPayload{Embeds: []webhookEmbed{embed}})

	if err != nil {
		n.log.WithError(err).Warn("marshaling webhook payload")
		return
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))

	if err != nil {
		n.log.WithError(err).Warn("posting webhook")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.log.WithField("status", resp.StatusCode).Warn("webhook rejected")
	}
}

// LowStockAlert reports items that have fallen to or below their
// minimum stock.
func (n *Notifier) LowStockAlert(restaurant string, items []string) {
	fields := make([]webhookField, 0, len(items))

	for _, item := range items {
		fields = append(fields, webhookField{Name: "Item", Value: item, Inline: true})
	}

	n.send(webhookEmbed{
		Title:       "Low stock alert",
		Description: fmt.Sprintf("%s has %d item(s) at or below minimum stock", restaurant, len(items)),
		Color:       0xE67E22,
		Fields:      fields,
	})
}

// SubscriptionExpired reports a tenant whose subscription lapsed.
func (n *Notifier) SubscriptionExpired(email, plan string) {
	n.send(webhookEmbed{
		Title:       "Subscription expired",
		Description: fmt.Sprintf("%s (%s plan) has lapsed and was marked inactive", email, plan),
		Color:       0xE74C3C,
	})
}
