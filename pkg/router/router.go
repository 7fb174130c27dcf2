// Package router answers store support questions from the catalog using keyword rules.
package router

import (
	"math/rand/v2"
	"sync"

	"github.com/dukex/scribe/pkg/models"
)

// Random picks an index in [0, n).
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

type lockedRandom struct {
	mu  sync.Mutex
	src Random
}

func (l *lockedRandom) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.src.IntN(n)
}

type Option func(*Router)

// WithRandom sets the source used to pick fallback replies. Calls into it are serialized.
func WithRandom(r Random) Option {
	return func(rt *Router) {
		rt.random = &lockedRandom{src: r}
	}
}

// Router is safe for concurrent use.
type Router struct {
	random Random
}

func New(opts ...Option) *Router {
	r := &Router{random: globalRandom{}}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Respond classifies query and renders the reply. It never fails.
func (r *Router) Respond(query string, products []models.Product, orders []models.Order) string {
	return r.Render(Classify(query), products, orders)
}

// Render produces the reply text for an already classified intent.
func (r *Router) Render(intent Intent, products []models.Product, orders []models.Order) string {
	switch intent.Kind {
	case KindTopSellers:
		return renderTopSellers(products)
	case KindOrderStatus:
		return renderOrderStatus(intent.OrderID, orders)
	case KindStockLookup:
		return renderStockLookup(intent.Product, products)
	case KindProductHelp:
		return productHelp
	default:
		return fallbacks[r.random.IntN(len(fallbacks))]
	}
}
