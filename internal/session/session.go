// Package session keeps per-user conversation state between chat turns.
package session

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopassist/internal/model"
)

// Clear scopes
const (
	ScopeAll           = "all"
	ScopeChat          = "chat"
	ScopeProducts      = "products"
	ScopeSearchHistory = "search_history"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Limits bounds the histories a session keeps
type Limits struct {
	MaxChatMessages  int `json:"max_chat_messages"`
	MaxSearchHistory int `json:"max_search_history"`
}

// DefaultLimits mirrors the defaults in config
var DefaultLimits = Limits{MaxChatMessages: 100, MaxSearchHistory: 50}

// Message is one chat turn
type Message struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Intent    model.Intent    `json:"intent,omitempty"`
	Products  []model.Product `json:"products,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// SearchEntry records a product search
type SearchEntry struct {
	Query        string    `json:"query"`
	Timestamp    time.Time `json:"timestamp"`
	ResultsCount int       `json:"results_count"`
}

// Feedback is a rating left on the assistant
type Feedback struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// BudgetRange is an inclusive price range
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Profile holds user defaults
type Profile struct {
	PreferredLocation   string      `json:"preferred_location"`
	BudgetRange         BudgetRange `json:"budget_range"`
	PreferredCategories []string    `json:"preferred_categories"`
}

// Session is the explicit state threaded through one user's conversation.
// It is not safe for concurrent mutation; stores hand out copies.
type Session struct {
	ID              string             `json:"id"`
	ChatHistory     []Message          `json:"chat_history"`
	CurrentProducts []model.Product    `json:"current_products"`
	SearchHistory   []SearchEntry      `json:"search_history"`
	Favorites       []model.Product    `json:"favorite_products"`
	PriceAlerts     []model.PriceAlert `json:"price_alerts"`
	Preferences     map[string]string  `json:"user_preferences"`
	Profile         Profile            `json:"user_profile"`
	Feedback        []Feedback         `json:"user_feedback"`
	Limits          Limits             `json:"limits"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// New creates an empty session. An empty id gets a random UUID.
func New(id string, limits Limits) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	if limits.MaxChatMessages <= 0 {
		limits.MaxChatMessages = DefaultLimits.MaxChatMessages
	}
	if limits.MaxSearchHistory <= 0 {
		limits.MaxSearchHistory = DefaultLimits.MaxSearchHistory
	}

	now := time.Now().UTC()
	return &Session{
		ID:              id,
		ChatHistory:     []Message{},
		CurrentProducts: []model.Product{},
		SearchHistory:   []SearchEntry{},
		Favorites:       []model.Product{},
		PriceAlerts:     []model.PriceAlert{},
		Preferences:     map[string]string{},
		Profile: Profile{
			PreferredLocation:   "Accra",
			BudgetRange:         BudgetRange{Min: 0, Max: 10000},
			PreferredCategories: []string{},
		},
		Feedback:  []Feedback{},
		Limits:    limits,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// AddMessage appends a chat turn, dropping the oldest beyond the limit
func (s *Session) AddMessage(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.ChatHistory = append(s.ChatHistory, msg)
	if over := len(s.ChatHistory) - s.Limits.MaxChatMessages; over > 0 {
		s.ChatHistory = append([]Message(nil), s.ChatHistory[over:]...)
	}
	s.touch()
}

// AddSearch records a search, keeping only the most recent entries
func (s *Session) AddSearch(query string, resultsCount int) {
	s.SearchHistory = append(s.SearchHistory, SearchEntry{
		Query:        query,
		Timestamp:    time.Now().UTC(),
		ResultsCount: resultsCount,
	})
	if over := len(s.SearchHistory) - s.Limits.MaxSearchHistory; over > 0 {
		s.SearchHistory = append([]SearchEntry(nil), s.SearchHistory[over:]...)
	}
	s.touch()
}

// SetCurrentProducts replaces the products shown in the latest reply
func (s *Session) SetCurrentProducts(products []model.Product) {
	s.CurrentProducts = append([]model.Product{}, products...)
	s.touch()
}

// AddFavorite stores product unless an identical one is already saved
func (s *Session) AddFavorite(product model.Product) bool {
	for _, fav := range s.Favorites {
		if fav == product {
			return false
		}
	}
	s.Favorites = append(s.Favorites, product)
	s.touch()
	return true
}

// RemoveFavorite drops every favorite with the given title
func (s *Session) RemoveFavorite(title string) {
	kept := s.Favorites[:0]
	for _, fav := range s.Favorites {
		if fav.Title != title {
			kept = append(kept, fav)
		}
	}
	s.Favorites = kept
	s.touch()
}

// AddPriceAlert stores an alert on the session
func (s *Session) AddPriceAlert(alert model.PriceAlert) {
	s.PriceAlerts = append(s.PriceAlerts, alert)
	s.touch()
}

// AddFeedback records a rating
func (s *Session) AddFeedback(rating int, comment string) {
	s.Feedback = append(s.Feedback, Feedback{Rating: rating, Comment: comment, Timestamp: time.Now().UTC()})
	s.touch()
}

// UpdatePreferences merges prefs into the stored preferences
func (s *Session) UpdatePreferences(prefs map[string]string) {
	if s.Preferences == nil {
		s.Preferences = map[string]string{}
	}
	for k, v := range prefs {
		s.Preferences[k] = v
	}
	s.touch()
}

// SetProfile replaces the user's profile defaults
func (s *Session) SetProfile(profile Profile) {
	if profile.PreferredCategories == nil {
		profile.PreferredCategories = []string{}
	}
	s.Profile = profile
	s.touch()
}

// RecentSearches returns up to limit queries, newest first
func (s *Session) RecentSearches(limit int) []string {
	if limit < 0 {
		limit = 0
	}
	start := len(s.SearchHistory) - limit
	if start < 0 {
		start = 0
	}
	recent := make([]string, 0, len(s.SearchHistory)-start)
	for i := len(s.SearchHistory) - 1; i >= start; i-- {
		recent = append(recent, s.SearchHistory[i].Query)
	}
	return recent
}

// Clear empties the histories named by scope
func (s *Session) Clear(scope string) error {
	switch scope {
	case ScopeAll, "":
		s.ChatHistory = []Message{}
		s.CurrentProducts = []model.Product{}
		s.SearchHistory = []SearchEntry{}
	case ScopeChat:
		s.ChatHistory = []Message{}
	case ScopeProducts:
		s.CurrentProducts = []model.Product{}
	case ScopeSearchHistory:
		s.SearchHistory = []SearchEntry{}
	default:
		return fmt.Errorf("unknown clear scope %q", scope)
	}
	s.touch()
	return nil
}

// Stats summarises session activity
type Stats struct {
	TotalMessages     int `json:"total_messages"`
	UserMessages      int `json:"user_messages"`
	ProductsViewed    int `json:"products_viewed"`
	SearchesPerformed int `json:"searches_performed"`
	FavoritesCount    int `json:"favorites_count"`
}

// Stats returns activity counters
func (s *Session) Stats() Stats {
	user := 0
	for _, m := range s.ChatHistory {
		if m.Role == RoleUser {
			user++
		}
	}
	return Stats{
		TotalMessages:     len(s.ChatHistory),
		UserMessages:      user,
		ProductsViewed:    len(s.CurrentProducts),
		SearchesPerformed: len(s.SearchHistory),
		FavoritesCount:    len(s.Favorites),
	}
}

// categoryKeywords is checked in order; a message counts for its first matching category only
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"smartphones", []string{"phone", "smartphone", "mobile"}},
	{"laptops", []string{"laptop", "computer"}},
	{"audio", []string{"headphone", "speaker", "audio"}},
}

// FavoriteCategories ranks product categories by how often the user mentioned them
func (s *Session) FavoriteCategories() []string {
	counts := map[string]int{}
	for _, m := range s.ChatHistory {
		if m.Role != RoleUser {
			continue
		}
		content := strings.ToLower(m.Content)
		for _, c := range categoryKeywords {
			if containsAny(content, c.words) {
				counts[c.category]++
				break
			}
		}
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	return categories
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// BudgetSummary aggregates amounts mentioned in past searches
type BudgetSummary struct {
	Average float64 `json:"average"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

var amountPattern = regexp.MustCompile(`\d+(?:,\d{3})*`)

// AverageBudget summarises every number mentioned in search history,
// falling back to a typical range when nothing was mentioned
func (s *Session) AverageBudget() BudgetSummary {
	var amounts []int
	for _, entry := range s.SearchHistory {
		for _, raw := range amountPattern.FindAllString(strings.ToLower(entry.Query), -1) {
			n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
			if err != nil {
				continue
			}
			amounts = append(amounts, n)
		}
	}

	if len(amounts) == 0 {
		return BudgetSummary{Average: 2500, Min: 500, Max: 5000}
	}

	summary := BudgetSummary{Min: amounts[0], Max: amounts[0]}
	total := 0
	for _, n := range amounts {
		total += n
		if n < summary.Min {
			summary.Min = n
		}
		if n > summary.Max {
			summary.Max = n
		}
	}
	summary.Average = float64(total) / float64(len(amounts))
	return summary
}

// UserContext is the personalisation snapshot handed to recommenders
type UserContext struct {
	RecentSearches     []string          `json:"recent_searches"`
	Preferences        map[string]string `json:"preferences"`
	FavoriteCategories []string          `json:"favorite_categories"`
	AverageBudget      BudgetSummary     `json:"average_budget"`
}

// UserContext returns the personalisation snapshot for this session
func (s *Session) UserContext() UserContext {
	return UserContext{
		RecentSearches:     s.RecentSearches(5),
		Preferences:        s.Preferences,
		FavoriteCategories: s.FavoriteCategories(),
		AverageBudget:      s.AverageBudget(),
	}
}

// ExportHistory renders the chat history as indented JSON
func (s *Session) ExportHistory() ([]byte, error) {
	data, err := json.MarshalIndent(s.ChatHistory, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export chat history: %w", err)
	}
	return data, nil
}
