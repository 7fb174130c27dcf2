package router

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dukex/scribe/pkg/models"
)

const topSellersLimit = 5

const productHelp = "I can help you with product information! Here are some things I can assist with:\n\n" +
	"• **Product stock levels** - \"How many Classic T-Shirts are in stock?\"\n" +
	"• **Top selling products** - \"What are the top 5 best sellers?\"\n" +
	"• **Order status** - \"What's the status of order 12345?\"\n" +
	"• **Product details** - Just ask about any specific item!\n\n" +
	"What would you like to know?"

const stockHelp = "I can help you check stock levels! Please specify which product you'd like to know about. " +
	"Our popular items include:\n• Classic T-Shirt\n• Denim Jeans\n• Summer Dress\n• Hooded Sweatshirt\n• Athletic Shorts"

var fallbacks = []string{
	"I'm here to help with your shopping needs! I can check product availability, order status, and provide recommendations.",
	"How can I assist you today? I can help with orders, product information, stock levels, and more!",
	"Welcome to our customer support! I can help you track orders, check inventory, or find the perfect products.",
}

// formatPrice renders the shortest decimal form: 29.99, 139.97, 60.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderTopSellers(products []models.Product) string {
	ranked := slices.Clone(products)
	slices.SortStableFunc(ranked, func(a, b models.Product) int {
		return b.SalesCount - a.SalesCount
	})

	if len(ranked) > topSellersLimit {
		ranked = ranked[:topSellersLimit]
	}

	lines := make([]string, 0, len(ranked))
	for i, p := range ranked {
		lines = append(lines, fmt.Sprintf("%d. **%s** - %d units sold ($%s)", i+1, p.Name, p.SalesCount, formatPrice(p.Price)))
	}

	return "Here are our top 5 best-selling products:\n\n" + strings.Join(lines, "\n")
}

func renderOrderStatus(orderID string, orders []models.Order) string {
	idx := slices.IndexFunc(orders, func(o models.Order) bool { return o.ID == orderID })
	if idx < 0 {
		return fmt.Sprintf("I couldn't find an order with ID %s. Please check the order number and try again.", orderID)
	}

	order := orders[idx]

	var delivery string
	if order.EstimatedDelivery != "" {
		delivery = "Estimated Delivery: " + order.EstimatedDelivery
	}

	items := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fmt.Sprintf("• %s (Qty: %d) - $%s", item.ProductName, item.Quantity, formatPrice(item.Price)))
	}

	return fmt.Sprintf("**Order #%s Status: %s**\n\nCustomer: %s\nOrder Date: %s\nTotal: $%s\n%s\n\nItems:\n%s",
		order.ID,
		strings.ToUpper(string(order.Status)),
		order.CustomerName,
		order.OrderDate,
		formatPrice(order.Total),
		delivery,
		strings.Join(items, "\n"),
	)
}

func renderStockLookup(phrase string, products []models.Product) string {
	if phrase == "" {
		return stockHelp
	}

	idx := slices.IndexFunc(products, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(phrase))
	})
	if idx < 0 {
		return stockHelp
	}

	p := products[idx]

	return fmt.Sprintf("**%s** currently has **%d units** in stock.\n\nPrice: $%s\nCategory: %s\nTotal Sales: %d units\n\n%s",
		p.Name, p.Stock, formatPrice(p.Price), p.Category, p.SalesCount, p.Description)
}
