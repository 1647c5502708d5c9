package session

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func TestNew(t *testing.T) {
	s := New("", Limits{})
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, DefaultLimits, s.Limits)
	assert.Equal(t, "Accra", s.Profile.PreferredLocation)

	assert.Equal(t, "abc", New("abc", DefaultLimits).ID)
}

func TestSession_HistoryLimits(t *testing.T) {
	s := New("s1", Limits{MaxChatMessages: 3, MaxSearchHistory: 2})

	for i := 0; i < 5; i++ {
		s.AddMessage(Message{Role: RoleUser, Content: fmt.Sprintf("m%d", i)})
		s.AddSearch(fmt.Sprintf("q%d", i), i)
	}

	require.Len(t, s.ChatHistory, 3)
	assert.Equal(t, "m2", s.ChatHistory[0].Content)
	require.Len(t, s.SearchHistory, 2)
	assert.Equal(t, "q3", s.SearchHistory[0].Query)
	assert.Equal(t, []string{"q4", "q3"}, s.RecentSearches(5))
	assert.Equal(t, []string{"q4"}, s.RecentSearches(1))
	assert.Empty(t, s.RecentSearches(0))
	assert.NotPanics(t, func() { assert.Empty(t, s.RecentSearches(-3)) })
}

func TestSession_Favorites(t *testing.T) {
	s := New("s1", DefaultLimits)
	phone := model.Product{Title: "iPhone 11", Price: "GH₵ 3,800"}

	assert.True(t, s.AddFavorite(phone))
	assert.False(t, s.AddFavorite(phone))
	assert.True(t, s.AddFavorite(model.Product{Title: "HP Envy"}))

	s.RemoveFavorite("iPhone 11")
	require.Len(t, s.Favorites, 1)
	assert.Equal(t, "HP Envy", s.Favorites[0].Title)
}

func TestSession_Clear(t *testing.T) {
	fill := func() *Session {
		s := New("s1", DefaultLimits)
		s.AddMessage(Message{Role: RoleUser, Content: "hi"})
		s.AddSearch("phone", 3)
		s.SetCurrentProducts([]model.Product{{Title: "x"}})
		return s
	}

	s := fill()
	require.NoError(t, s.Clear(ScopeChat))
	assert.Empty(t, s.ChatHistory)
	assert.Len(t, s.SearchHistory, 1)

	s = fill()
	require.NoError(t, s.Clear(ScopeProducts))
	assert.Empty(t, s.CurrentProducts)
	assert.Len(t, s.ChatHistory, 1)

	s = fill()
	require.NoError(t, s.Clear(ScopeSearchHistory))
	assert.Empty(t, s.SearchHistory)

	s = fill()
	require.NoError(t, s.Clear(ScopeAll))
	assert.Empty(t, s.ChatHistory)
	assert.Empty(t, s.SearchHistory)
	assert.Empty(t, s.CurrentProducts)

	assert.Error(t, s.Clear("favorites"))
}

func TestSession_Stats(t *testing.T) {
	s := New("s1", DefaultLimits)
	s.AddMessage(Message{Role: RoleUser, Content: "find a phone"})
	s.AddMessage(Message{Role: RoleAssistant, Content: "here you go"})
	s.AddSearch("phone", 2)
	s.SetCurrentProducts([]model.Product{{Title: "a"}, {Title: "b"}})

	assert.Equal(t, Stats{
		TotalMessages:     2,
		UserMessages:      1,
		ProductsViewed:    2,
		SearchesPerformed: 1,
		FavoritesCount:    0,
	}, s.Stats())
}

func TestSession_FavoriteCategories(t *testing.T) {
	s := New("s1", DefaultLimits)
	for _, msg := range []string{"new laptop", "phone case", "gaming computer", "mobile phone", "laptop bag"} {
		s.AddMessage(Message{Role: RoleUser, Content: msg})
	}
	s.AddMessage(Message{Role: RoleAssistant, Content: "speaker speaker speaker"})

	assert.Equal(t, []string{"laptops", "smartphones"}, s.FavoriteCategories())
}

func TestSession_AverageBudget(t *testing.T) {
	s := New("s1", DefaultLimits)
	assert.Equal(t, BudgetSummary{Average: 2500, Min: 500, Max: 5000}, s.AverageBudget())

	s.AddSearch("phone under 1,000", 1)
	s.AddSearch("laptop 2000 to 3000", 1)

	assert.Equal(t, BudgetSummary{Average: 2000, Min: 1000, Max: 3000}, s.AverageBudget())
}

func TestSession_ExportHistory(t *testing.T) {
	s := New("s1", DefaultLimits)
	s.AddMessage(Message{Role: RoleUser, Content: "hello"})

	data, err := s.ExportHistory()
	require.NoError(t, err)

	var msgs []Message
	require.NoError(t, json.Unmarshal(data, &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
}

func TestSession_SetProfile(t *testing.T) {
	s := New("s1", DefaultLimits)
	s.SetProfile(Profile{PreferredLocation: "Tamale", BudgetRange: BudgetRange{Min: 100, Max: 900}})

	assert.Equal(t, "Tamale", s.Profile.PreferredLocation)
	assert.Equal(t, 900, s.Profile.BudgetRange.Max)
	assert.NotNil(t, s.Profile.PreferredCategories)
}

func TestSession_UserContext(t *testing.T) {
	s := New("s1", DefaultLimits)
	s.UpdatePreferences(map[string]string{"location": "Kumasi"})
	s.AddMessage(Message{Role: RoleUser, Content: "bluetooth speaker deals"})
	s.AddSearch("speaker", 4)

	ctx := s.UserContext()
	assert.Equal(t, []string{"speaker"}, ctx.RecentSearches)
	assert.Equal(t, "Kumasi", ctx.Preferences["location"])
	assert.Equal(t, []string{"audio"}, ctx.FavoriteCategories)
}
