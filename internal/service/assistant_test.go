package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/config"
	"shopassist/internal/model"
	"shopassist/internal/session"
)

type recordingLogger struct {
	logged chan *model.Interaction
}

func (r *recordingLogger) LogInteraction(ctx context.Context, interaction *model.Interaction) error {
	r.logged <- interaction
	return nil
}

type slowLogger struct {
	delay  time.Duration
	logged atomic.Int32
}

func (s *slowLogger) LogInteraction(ctx context.Context, interaction *model.Interaction) error {
	time.Sleep(s.delay)
	s.logged.Add(1)
	return nil
}

type memoryAlerts struct {
	saved []*model.PriceAlert
	err   error
}

func (m *memoryAlerts) SavePriceAlert(ctx context.Context, alert *model.PriceAlert) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, alert)
	return nil
}

var allFeatures = config.FeatureConfig{
	Scraping:        true,
	OrderTracking:   true,
	Recommendations: true,
	PriceAlerts:     true,
	Comparison:      true,
}

func newTestAssistant(source ProductSource, features config.FeatureConfig, opts ...AssistantOption) *Assistant {
	searcher := NewProductSearcher(source, NewRanker(0.6, 0.4), 10, zerolog.Nop())
	return NewAssistant(NewIntentClassifier(nil, 0), searcher, features, zerolog.Nop(), opts...)
}

func TestAssistant_SearchProduct(t *testing.T) {
	assistant := newTestAssistant(&fakeSource{products: phoneListings()}, allFeatures)
	sess := session.New("s1", session.DefaultLimits)

	resp, err := assistant.Respond(context.Background(), sess, "Find Samsung Galaxy phones under GHS 2000")
	require.NoError(t, err)

	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, model.IntentSearchProduct, resp.Intent)
	assert.Equal(t, Explanation(model.IntentSearchProduct), resp.Explanation)
	assert.Len(t, resp.Products, 2)

	require.Len(t, sess.ChatHistory, 2)
	assert.Equal(t, session.RoleUser, sess.ChatHistory[0].Role)
	assert.Equal(t, session.RoleAssistant, sess.ChatHistory[1].Role)
	assert.Len(t, sess.ChatHistory[1].Products, 2)
	assert.Len(t, sess.CurrentProducts, 2)
	assert.Equal(t, []string{"Find Samsung Galaxy phones under GHS 2000"}, sess.RecentSearches(5))
}

func TestAssistant_Routes(t *testing.T) {
	assistant := newTestAssistant(&fakeSource{products: phoneListings()}, allFeatures)

	tests := []struct {
		query    string
		intent   model.Intent
		contains string
	}{
		{"How do I get a refund?", model.IntentFAQInquiry, "Returns & Refunds"},
		{"Track my order JJ123456", model.IntentTrackOrder, "Order Tracking - #JJ123456"},
		{"Recommend the best popular laptop", model.IntentGetRecommendations, "Recommended Laptops"},
		{"compare the difference between samsung vs iphone", model.IntentCompareProducts, "Product Comparison"},
		{"hello there", model.IntentGeneralChat, "I'm here to help you with"},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			resp, err := assistant.Respond(context.Background(), session.New("", session.DefaultLimits), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, resp.Intent)
			assert.Contains(t, resp.Message, tt.contains)
		})
	}
}

func TestAssistant_TrackingAttached(t *testing.T) {
	assistant := newTestAssistant(&fakeSource{}, allFeatures)

	resp, err := assistant.Respond(context.Background(), session.New("", session.DefaultLimits), "Track my order JJ123456")
	require.NoError(t, err)
	require.NotNil(t, resp.Tracking)
	assert.Equal(t, "JJ123456", resp.Tracking.OrderNumber)
}

func TestAssistant_DisabledFeatures(t *testing.T) {
	assistant := newTestAssistant(&fakeSource{products: phoneListings()}, config.FeatureConfig{Scraping: true})

	tests := []struct {
		query  string
		intent model.Intent
	}{
		{"Track my order JJ123456", model.IntentTrackOrder},
		{"Recommend the best popular laptop", model.IntentGetRecommendations},
		{"compare the difference between samsung vs iphone", model.IntentCompareProducts},
		{"notify me on a price drop", model.IntentPriceAlert},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			resp, err := assistant.Respond(context.Background(), session.New("", session.DefaultLimits), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, resp.Intent)
			assert.Contains(t, resp.Message, "Coming Soon")
			assert.Empty(t, resp.Products)
			assert.Nil(t, resp.Tracking)
		})
	}
}

func TestAssistant_PriceAlert(t *testing.T) {
	alerts := &memoryAlerts{}
	assistant := newTestAssistant(&fakeSource{}, allFeatures, WithPriceAlertStore(alerts))
	sess := session.New("s1", session.DefaultLimits)

	resp, err := assistant.Respond(context.Background(), sess, "notify me with an alert and let me know with a notification when price of samsung phone goes under 1500")
	require.NoError(t, err)

	assert.Equal(t, model.IntentPriceAlert, resp.Intent)
	require.Len(t, alerts.saved, 1)
	assert.Equal(t, "s1", alerts.saved[0].SessionID)
	assert.Equal(t, model.JSONArray{"phone", "samsung"}, alerts.saved[0].Keywords)
	require.NotNil(t, alerts.saved[0].MaxPrice)
	assert.Equal(t, 1500, *alerts.saved[0].MaxPrice)
	require.Len(t, sess.PriceAlerts, 1)
	assert.Contains(t, resp.Message, "under GHS 1,500")
}

func TestAssistant_PriceAlertStoreFailure(t *testing.T) {
	assistant := newTestAssistant(&fakeSource{}, allFeatures, WithPriceAlertStore(&memoryAlerts{err: errors.New("db down")}))
	sess := session.New("s1", session.DefaultLimits)

	resp, err := assistant.Respond(context.Background(), sess, "notify me on a price drop")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "couldn't save your price alert")
	assert.Empty(t, sess.PriceAlerts)
}

func TestAssistant_SearchErrorBecomesReply(t *testing.T) {
	assistant := newTestAssistant(&fakeSource{err: errors.New("upstream exploded")}, allFeatures)

	resp, err := assistant.Respond(context.Background(), session.New("", session.DefaultLimits), "find a laptop")
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "upstream exploded")
}

func TestAssistant_CancelledSearch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assistant := newTestAssistant(&fakeSource{err: context.Canceled}, allFeatures)

	_, err := assistant.Respond(ctx, session.New("", session.DefaultLimits), "find a laptop")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssistant_LogsInteraction(t *testing.T) {
	logger := &recordingLogger{logged: make(chan *model.Interaction, 1)}
	assistant := newTestAssistant(&fakeSource{products: phoneListings()}, allFeatures, WithInteractionLogger(logger))

	_, err := assistant.Respond(context.Background(), session.New("s9", session.DefaultLimits), "Find Samsung Galaxy phones under GHS 2000")
	require.NoError(t, err)

	select {
	case interaction := <-logger.logged:
		assert.Equal(t, "s9", interaction.SessionID)
		assert.Equal(t, model.IntentSearchProduct, interaction.Intent)
		assert.Equal(t, 2, interaction.ResultCount)
	case <-time.After(time.Second):
		t.Fatal("interaction was not logged")
	}
}

func TestAssistant_WaitDrainsInteractionWrites(t *testing.T) {
	logger := &slowLogger{delay: 50 * time.Millisecond}
	assistant := newTestAssistant(&fakeSource{products: phoneListings()}, allFeatures, WithInteractionLogger(logger))
	sess := session.New("s10", session.DefaultLimits)

	for i := 0; i < 3; i++ {
		_, err := assistant.Respond(context.Background(), sess, "hello there")
		require.NoError(t, err)
	}

	assistant.Wait()
	assert.Equal(t, int32(3), logger.logged.Load())
}

func TestAssistant_RespondStream(t *testing.T) {
	assistant := newTestAssistant(&fakeSource{products: phoneListings()}, allFeatures)

	var events []string
	resp, err := assistant.RespondStream(context.Background(), session.New("", session.DefaultLimits),
		"Find Samsung Galaxy phones under GHS 2000",
		func(event string, data any) error {
			events = append(events, event)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"intent", "products"}, events)
	assert.NotEmpty(t, resp.Products)

	stop := errors.New("client gone")
	_, err = assistant.RespondStream(context.Background(), session.New("", session.DefaultLimits), "hello",
		func(event string, data any) error { return stop })
	assert.ErrorIs(t, err, stop)
}
