package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		extractDedup = false
		chatLive = false
		maxQueryLength = 0
	})

	require.NoError(t, rootCmd.Execute(), errOut.String())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	out := runCLI(t, "", "classify", "How", "do", "I", "get", "a", "refund?")

	var body struct {
		Intent     model.Intent `json:"intent"`
		Confidence int          `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, model.IntentFAQInquiry, body.Intent)
	assert.Equal(t, 2, body.Confidence)
}

func TestExtractCommand(t *testing.T) {
	out := runCLI(t, "", "extract", "--dedup", "128gb or 128 gb samsung under 3,000")

	var entities model.EntityBundle
	require.NoError(t, json.Unmarshal([]byte(out), &entities))
	assert.Equal(t, []string{"128 gb"}, entities.Specifications)
	assert.Equal(t, []string{"samsung"}, entities.Brands)
	require.NotNil(t, entities.Budget.Max)
	assert.Equal(t, 3000, *entities.Budget.Max)
}

func TestChatCommand(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DATABASE_URL", "")

	out := runCLI(t, "Find Samsung Galaxy phones under GHS 5000\n/stats\n/clear nonsense\n/pref location=Kumasi\n/pref\n/pref broken\n/quit\nnever read\n", "chat")

	assert.Contains(t, out, "[search_product, confidence")
	assert.Contains(t, out, "Samsung Galaxy S20 Ultra")
	assert.Contains(t, out, `"searches_performed": 1`)
	assert.Contains(t, out, `unknown clear scope "nonsense"`)
	assert.Contains(t, out, "Preferences saved")
	assert.Contains(t, out, `"location": "Kumasi"`)
	assert.Contains(t, out, `preference "broken" is not key=value`)
	assert.NotContains(t, out, "never read")
}
