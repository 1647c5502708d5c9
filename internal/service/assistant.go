package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopassist/internal/config"
	"shopassist/internal/model"
	"shopassist/internal/session"
)

// InteractionLogger records classified chat turns
type InteractionLogger interface {
	LogInteraction(ctx context.Context, interaction *model.Interaction) error
}

// PriceAlertStore persists price alerts
type PriceAlertStore interface {
	SavePriceAlert(ctx context.Context, alert *model.PriceAlert) error
}

// EventCallback is called for streaming chat events
type EventCallback func(event string, data any) error

const generalChatReply = `I'm here to help you with:
• 🔍 **Product Search** - Find products on Jiji.com.gh
• 📦 **Order Tracking** - Track your orders
• ❓ **FAQ & Support** - Get answers to common questions
• 💡 **Recommendations** - Get personalized product suggestions
• ⚖️ **Product Comparison** - Compare different products
• 🔔 **Price Alerts** - Set alerts for price drops

Try asking something like: *"Find Samsung Galaxy phones under GHS 2000"*`

var comingSoon = map[model.Intent]string{
	model.IntentTrackOrder: `**Order Tracking** (Coming Soon!)

Order tracking is not available yet. Contact the seller directly through Jiji for delivery updates.`,
	model.IntentGetRecommendations: `**Product Recommendations** (Coming Soon!)

For now, try searching for a product, e.g. "Find Samsung phones under GHS 2000".`,
	model.IntentCompareProducts: `**Product Comparison** (Coming Soon!)

I'll soon be able to help you compare:
• Specifications side-by-side
• Price differences
• Pros and cons
• User ratings and reviews

For now, try searching for specific products and I'll show you multiple options to compare manually.`,
	model.IntentPriceAlert: `**Price Alerts** (Coming Soon!)

Soon you'll be able to:
• Set alerts for specific products
• Get notified when prices drop
• Track price history
• Set budget thresholds

For now, bookmark products you're interested in and check back regularly!`,
}

// Assistant routes a classified chat turn to the component that answers it
type Assistant struct {
	classifier   *IntentClassifier
	searcher     *ProductSearcher
	faq          *FAQResponder
	orders       *OrderTracker
	recommender  *Recommender
	features     config.FeatureConfig
	interactions InteractionLogger
	alerts       PriceAlertStore
	logger       zerolog.Logger

	pending sync.WaitGroup // in-flight interaction writes
}

// AssistantOption configures optional Assistant collaborators
type AssistantOption func(*Assistant)

// WithInteractionLogger logs every classified turn
func WithInteractionLogger(l InteractionLogger) AssistantOption {
	return func(a *Assistant) { a.interactions = l }
}

// WithPriceAlertStore persists price alerts beyond the session
func WithPriceAlertStore(s PriceAlertStore) AssistantOption {
	return func(a *Assistant) { a.alerts = s }
}

// NewAssistant creates a new assistant
func NewAssistant(
	classifier *IntentClassifier,
	searcher *ProductSearcher,
	features config.FeatureConfig,
	logger zerolog.Logger,
	opts ...AssistantOption,
) *Assistant {
	a := &Assistant{
		classifier:  classifier,
		searcher:    searcher,
		faq:         NewFAQResponder(),
		orders:      NewOrderTracker(),
		recommender: NewRecommender(),
		features:    features,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Classifier returns the intent classifier used by the assistant
func (a *Assistant) Classifier() *IntentClassifier {
	return a.classifier
}

// FAQ returns the FAQ responder
func (a *Assistant) FAQ() *FAQResponder {
	return a.faq
}

// Recommender returns the recommender
func (a *Assistant) Recommender() *Recommender {
	return a.recommender
}

// Wait blocks until every interaction write started so far has finished.
// Call it before closing the InteractionLogger.
func (a *Assistant) Wait() {
	a.pending.Wait()
}

// Respond answers one user turn and records it in sess
func (a *Assistant) Respond(ctx context.Context, sess *session.Session, text string) (*model.ChatResponse, error) {
	return a.RespondStream(ctx, sess, text, nil)
}

// RespondStream answers one user turn, reporting progress through callback
func (a *Assistant) RespondStream(ctx context.Context, sess *session.Session, text string, callback EventCallback) (*model.ChatResponse, error) {
	startTime := time.Now()
	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	result := a.classifier.Classify(text)
	resp := &model.ChatResponse{
		SessionID:   sess.ID,
		Intent:      result.Intent,
		Confidence:  result.Confidence,
		Entities:    result.Entities,
		Explanation: Explanation(result.Intent),
	}

	if err := emit("intent", map[string]any{
		"intent":      result.Intent,
		"confidence":  result.Confidence,
		"entities":    result.Entities,
		"explanation": resp.Explanation,
	}); err != nil {
		return nil, err
	}

	sess.AddMessage(session.Message{Role: session.RoleUser, Content: text, Intent: result.Intent})

	if err := a.dispatch(ctx, sess, text, result, resp); err != nil {
		return nil, err
	}

	if len(resp.Products) > 0 {
		if err := emit("products", resp.Products); err != nil {
			return nil, err
		}
	}

	sess.AddMessage(session.Message{
		Role:     session.RoleAssistant,
		Content:  resp.Message,
		Intent:   result.Intent,
		Products: plainProducts(resp.Products),
	})

	resp.Took = time.Since(startTime).Milliseconds()
	a.logInteraction(sess.ID, text, result, len(resp.Products), resp.Took)

	a.logger.Info().
		Str("session_id", sess.ID).
		Str("intent", string(result.Intent)).
		Int("confidence", result.Confidence).
		Int("products", len(resp.Products)).
		Int64("took_ms", resp.Took).
		Msg("chat turn handled")

	return resp, nil
}

func (a *Assistant) dispatch(ctx context.Context, sess *session.Session, text string, result model.ClassificationResult, resp *model.ChatResponse) error {
	if msg, disabled := a.disabledReply(result.Intent); disabled {
		resp.Message = msg
		return nil
	}

	switch result.Intent {
	case model.IntentSearchProduct:
		return a.searchProducts(ctx, sess, text, result.Entities, resp)

	case model.IntentTrackOrder:
		resp.Message, resp.Tracking = a.orders.Respond(text)

	case model.IntentFAQInquiry:
		resp.Message = a.faq.Answer(text)

	case model.IntentGetRecommendations:
		msg, products := a.recommender.Recommend(text, result.Entities)
		resp.Message = msg
		resp.Products = a.searcher.ranker.RankResults(products, result.Entities)
		sess.SetCurrentProducts(products)

	case model.IntentCompareProducts:
		if err := a.searchProducts(ctx, sess, text, result.Entities, resp); err != nil {
			return err
		}
		if len(resp.Products) > 0 {
			resp.Message = comparisonMessage(resp.Products)
		}

	case model.IntentPriceAlert:
		return a.createPriceAlert(ctx, sess, text, result.Entities, resp)

	default:
		resp.Message = generalChatReply
	}
	return nil
}

func (a *Assistant) disabledReply(intent model.Intent) (string, bool) {
	var enabled bool
	switch intent {
	case model.IntentTrackOrder:
		enabled = a.features.OrderTracking
	case model.IntentGetRecommendations:
		enabled = a.features.Recommendations
	case model.IntentCompareProducts:
		enabled = a.features.Comparison
	case model.IntentPriceAlert:
		enabled = a.features.PriceAlerts
	default:
		return "", false
	}
	if enabled {
		return "", false
	}
	return comingSoon[intent], true
}

func (a *Assistant) searchProducts(ctx context.Context, sess *session.Session, text string, entities model.EntityBundle, resp *model.ChatResponse) error {
	outcome, err := a.searcher.Search(ctx, text, entities)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.logger.Error().Err(err).Str("session_id", sess.ID).Msg("product search failed")
		resp.Message = fmt.Sprintf(`Sorry, I encountered an error while searching for products: %v

Please try:
• Using simpler search terms
• Visiting [Jiji.com.gh](https://jiji.com.gh) directly`, err)
		return nil
	}

	resp.Message = outcome.Message
	resp.Products = outcome.Products
	sess.AddSearch(text, len(outcome.Products))
	sess.SetCurrentProducts(plainProducts(outcome.Products))
	return nil
}

func (a *Assistant) createPriceAlert(ctx context.Context, sess *session.Session, text string, entities model.EntityBundle, resp *model.ChatResponse) error {
	alert := model.PriceAlert{
		ID:        uuid.NewString(),
		SessionID: sess.ID,
		Query:     text,
		Keywords:  model.JSONArray(strings.Fields(BuildSearchQuery(text, entities))),
		MaxPrice:  entities.Budget.Max,
		CreatedAt: time.Now().UTC(),
	}

	if a.alerts != nil {
		if err := a.alerts.SavePriceAlert(ctx, &alert); err != nil {
			a.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save price alert")
			resp.Message = "Sorry, I couldn't save your price alert right now. Please try again later."
			return nil
		}
	}
	sess.AddPriceAlert(alert)

	target := strings.Join(alert.Keywords, " ")
	if alert.MaxPrice != nil {
		resp.Message = fmt.Sprintf("🔔 Price alert set! I'll let you know when **%s** is available%s.", target, BudgetPhrase(model.Budget{Max: alert.MaxPrice}))
	} else {
		resp.Message = fmt.Sprintf("🔔 Price alert set! I'll let you know when the price of **%s** drops.", target)
	}
	return nil
}

// logInteraction logs the turn without blocking the reply
func (a *Assistant) logInteraction(sessionID, text string, result model.ClassificationResult, resultCount int, took int64) {
	if a.interactions == nil {
		return
	}
	interaction := &model.Interaction{
		SessionID:      sessionID,
		Query:          text,
		Intent:         result.Intent,
		Confidence:     result.Confidence,
		Entities:       result.Entities,
		ResultCount:    resultCount,
		ResponseTimeMs: int(took),
	}
	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.interactions.LogInteraction(ctx, interaction); err != nil {
			a.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to log interaction")
		}
	}()
}

func comparisonMessage(results []model.ProductSearchResult) string {
	var b strings.Builder
	b.WriteString("**Product Comparison**\n\nHere are the options side by side:\n")
	for i, r := range results {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "\n%d. **%s** - %s (%s)", i+1, r.Title, r.Price, r.Location)
	}
	return b.String()
}

func plainProducts(results []model.ProductSearchResult) []model.Product {
	products := make([]model.Product, 0, len(results))
	for _, r := range results {
		products = append(products, r.Product)
	}
	return products
}
