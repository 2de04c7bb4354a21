package mail

import (
	"fmt"
	"log"
	"strings"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
)

// OrderNotifier sends order confirmation mails with the download links.
// Sending happens in a goroutine and is best-effort: the order record is
// the durable truth, mail is not.
type OrderNotifier struct {
	BaseURL string
}

// NewOrderNotifierFromEnv builds a notifier using the public domain for links.
func NewOrderNotifierFromEnv() *OrderNotifier {
	return &OrderNotifier{
		BaseURL: strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000"), "/"),
	}
}

// NotifyOrderCompleted delivers the confirmation for a freshly recorded order.
func (n *OrderNotifier) NotifyOrderCompleted(order *models.Order) {
	if strings.TrimSpace(order.CustomerEmail) == "" {
		log.Printf("order %s has no customer email, skipping confirmation mail", order.ID)
		return
	}

	subject := fmt.Sprintf("Your NotesKart order %s is ready", order.ID)
	body := n.buildOrderMailBody(order)

	go func() {
		if err := SendMail(order.CustomerEmail, subject, body); err != nil {
			log.Printf("order confirmation mail for %s failed: %v", order.ID, err)
		}
	}()
}

func (n *OrderNotifier) buildOrderMailBody(order *models.Order) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>Thank you for your purchase, %s!</h2>", order.CustomerName))
	b.WriteString(fmt.Sprintf("<p>Your payment of &#8377;%d for <strong>%s</strong> was successful.</p>", order.Amount, order.ProductName))
	b.WriteString(fmt.Sprintf("<p>Order ID: <strong>%s</strong></p>", order.ID))
	b.WriteString(fmt.Sprintf(`<p><a href="%s/download/%s">Download your PDF</a></p>`, n.BaseURL, order.ID))
	if order.AssetIsFolder {
		b.WriteString(fmt.Sprintf(`<p><a href="%s/download-all/%s">Download all PDFs as ZIP</a></p>`, n.BaseURL, order.ID))
	}
	b.WriteString("<p>Keep this mail: the links stay valid and can be used again anytime.</p>")
	return b.String()
}
