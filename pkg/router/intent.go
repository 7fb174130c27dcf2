package router

import (
	"regexp"
	"strings"
)

// Kind is the classified purpose of a user query.
type Kind string

const (
	KindTopSellers   Kind = "top_sellers"
	KindOrderStatus  Kind = "order_status"
	KindStockLookup  Kind = "stock_lookup"
	KindProductHelp  Kind = "product_help"
	KindUnclassified Kind = "unclassified"
)

// Intent is the result of classifying a query. OrderID is set for KindOrderStatus;
// Product holds the matched product phrase for KindStockLookup and may be empty.
type Intent struct {
	Kind    Kind   `json:"kind"`
	OrderID string `json:"order_id,omitempty"`
	Product string `json:"product,omitempty"`
}

var (
	digitRun = regexp.MustCompile(`\d+`)

	// knownProducts is matched leftmost-first, so the earliest phrase in the query wins.
	knownProducts = regexp.MustCompile(`classic t-shirt|denim jeans|summer dress|hooded sweatshirt|athletic shorts|cardigan sweater|button-up shirt|yoga leggings`)
)

// rule inspects a lower-cased query. ok=false lets the next rule try.
type rule func(query string) (intent Intent, ok bool)

var rules = []rule{
	matchTopSellers,
	matchOrderStatus,
	matchStockLookup,
	matchProductHelp,
}

// Classify maps a free-text query to an Intent. The first matching rule wins.
func Classify(query string) Intent {
	lower := strings.ToLower(query)

	for _, r := range rules {
		if intent, ok := r(lower); ok {
			return intent
		}
	}

	return Intent{Kind: KindUnclassified}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}

	return false
}

func matchTopSellers(q string) (Intent, bool) {
	if strings.Contains(q, "top") && containsAny(q, "sell", "popular") {
		return Intent{Kind: KindTopSellers}, true
	}

	return Intent{}, false
}

// matchOrderStatus does not fire without a digit run, so such queries fall through.
func matchOrderStatus(q string) (Intent, bool) {
	if !strings.Contains(q, "order") || !strings.Contains(q, "status") {
		return Intent{}, false
	}

	id := digitRun.FindString(q)
	if id == "" {
		return Intent{}, false
	}

	return Intent{Kind: KindOrderStatus, OrderID: id}, true
}

func matchStockLookup(q string) (Intent, bool) {
	if !containsAny(q, "stock", "inventory", "left") {
		return Intent{}, false
	}

	return Intent{Kind: KindStockLookup, Product: knownProducts.FindString(q)}, true
}

func matchProductHelp(q string) (Intent, bool) {
	if containsAny(q, "product", "item") {
		return Intent{Kind: KindProductHelp}, true
	}

	return Intent{}, false
}
