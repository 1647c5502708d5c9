package service

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"shopassist/internal/model"
)

// Order statuses in fulfilment order
var orderStatuses = []string{
	"Order Confirmed",
	"Processing",
	"Shipped",
	"Out for Delivery",
	"Delivered",
}

var statusEmoji = map[string]string{
	"Order Confirmed":  "✅",
	"Processing":       "⏳",
	"Shipped":          "📦",
	"Out for Delivery": "🚚",
	"Delivered":        "🎉",
}

// Order number patterns, tried in order against the upper-cased text.
// Words after "order" only count when they contain a digit, so
// "order status" is not taken for an order number.
var orderNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:ORDER\s*(?:NUMBER)?[:#\s]*)?([A-Z]{2}\d{6})`),
	regexp.MustCompile(`(?:ORDER\s*(?:NUMBER)?[:#\s]*)(\d{6,8})`),
	regexp.MustCompile(`#(\w+)`),
	regexp.MustCompile(`ORDER\s+(?:STATUS\s+)?(?:FOR\s+|NUMBER\s*)?[:#]?\s*([A-Z]*\d[A-Z0-9]*)`),
}

const orderPrompt = `**Order Tracking**

I'd be happy to help track your order! Please provide your order number.

**Examples:**
• "Track order JJ123456"
• "Where is my order #123456"
• "Order status for 123456"

**Note:** Order tracking is currently in development. Full integration with Jiji's tracking system coming soon!`

// OrderTracker produces demo tracking information for order numbers.
// Results are deterministic for a given order number.
type OrderTracker struct{}

// NewOrderTracker creates a new order tracker
func NewOrderTracker() *OrderTracker {
	return &OrderTracker{}
}

// ExtractOrderNumber finds an order number in free text, returning "" when there is none
func (o *OrderTracker) ExtractOrderNumber(text string) string {
	upper := strings.ToUpper(text)
	for _, re := range orderNumberPatterns {
		if m := re.FindStringSubmatch(upper); m != nil {
			return m[1]
		}
	}
	return ""
}

// Track returns tracking details for an order number
func (o *OrderTracker) Track(orderNumber string) *model.OrderTracking {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderNumber))
	status := orderStatuses[h.Sum32()%uint32(len(orderStatuses))]

	return &model.OrderTracking{
		OrderNumber:       orderNumber,
		Status:            status,
		EstimatedDelivery: "2-3 business days",
		LastUpdate:        "Today, 2:30 PM",
		Details: []model.TrackingEvent{
			{Time: "Today, 2:30 PM", Status: status, Location: "Accra Sorting Facility"},
			{Time: "Yesterday, 4:15 PM", Status: "Shipped", Location: "Kumasi Warehouse"},
			{Time: "2 days ago, 10:00 AM", Status: "Processing", Location: "Seller Location"},
		},
	}
}

// Respond extracts an order number from text and renders its tracking
// history. Without an order number it asks for one and returns nil tracking.
func (o *OrderTracker) Respond(text string) (string, *model.OrderTracking) {
	number := o.ExtractOrderNumber(text)
	if number == "" {
		return orderPrompt, nil
	}

	tracking := o.Track(number)

	var b strings.Builder
	fmt.Fprintf(&b, "**Order Tracking - #%s**\n\n", tracking.OrderNumber)
	fmt.Fprintf(&b, "**Current Status:** 🚚 %s\n", tracking.Status)
	fmt.Fprintf(&b, "**Last Update:** %s\n", tracking.LastUpdate)
	fmt.Fprintf(&b, "**Estimated Delivery:** %s\n\n", tracking.EstimatedDelivery)
	b.WriteString("**Tracking History:**\n")
	for _, event := range tracking.Details {
		fmt.Fprintf(&b, "• %s **%s** - %s (%s)\n", emojiFor(event.Status), event.Status, event.Time, event.Location)
	}
	b.WriteString("\n**Need Help?**\nContact the seller directly through Jiji or reach out to Jiji support if you have concerns about your order.\n\n")
	b.WriteString("*Note: This is a demo tracking system. Real integration coming soon!*")

	return b.String(), tracking
}

func emojiFor(status string) string {
	if e, ok := statusEmoji[status]; ok {
		return e
	}
	return "📋"
}
