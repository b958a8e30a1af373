package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

// NotifierConfig holds the outbound webhook endpoints. Both calls are
// best-effort: failures are logged and never retried.
type NotifierConfig struct {
	BatchWebhookURL string
	OrderWebhookURL string
}

// Notifier posts JSON payloads to the workflow-automation webhooks.
type Notifier struct {
	config     *NotifierConfig
	httpClient *http.Client
}

var (
	notifier     *Notifier
	notifierOnce sync.Once
)

// GetNotifier returns the singleton notifier configured from environment
// variables.
func GetNotifier() *Notifier {
	notifierOnce.Do(func() {
		notifier = &Notifier{
			config: &NotifierConfig{
				BatchWebhookURL: os.Getenv("BATCH_WEBHOOK_URL"),
				OrderWebhookURL: os.Getenv("ORDER_WEBHOOK_URL"),
			},
			httpClient: &http.Client{Timeout: 10 * time.Second},
		}
	})
	return notifier
}

// BatchRecipient is one customer whose order became ready in a batch sweep.
type BatchRecipient struct {
	OrderNumber string `json:"order_number"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	RoomNumber  string `json:"room_number"`
}

// NotifyBatchReady tells the workflow webhook that a batch finished its
// wash cycle so downstream delivery messages go out.
func (n *Notifier) NotifyBatchReady(batchNumber int, recipients []BatchRecipient) error {
	if n.config.BatchWebhookURL == "" {
		return fmt.Errorf("BATCH_WEBHOOK_URL not configured")
	}

	payload := map[string]interface{}{
		"event":        "batch_ready",
		"batch_number": batchNumber,
		"recipients":   recipients,
		"sent_at":      time.Now().Format(time.RFC3339),
	}

	return n.post(n.config.BatchWebhookURL, payload)
}

// RelayOrder forwards a validated order submission to the workflow webhook.
func (n *Notifier) RelayOrder(payload interface{}) error {
	if n.config.OrderWebhookURL == "" {
		return fmt.Errorf("ORDER_WEBHOOK_URL not configured")
	}
	return n.post(n.config.OrderWebhookURL, payload)
}

func (n *Notifier) post(url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	utils.InfoLogger.Printf("Webhook call to %s succeeded", url)
	return nil
}

// ResetNotifierForTest clears the singleton so tests can point the webhook
// URLs at a local server.
func ResetNotifierForTest() {
	notifier = nil
	notifierOnce = sync.Once{}
}
