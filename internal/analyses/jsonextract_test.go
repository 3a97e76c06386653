package analyses

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectBare(t *testing.T) {
	obj, ok := parseObject(`  {"match_score": 70, "analysis": "fine"}  `)

	require.True(t, ok)
	assert.Equal(t, float64(70), obj["match_score"])
	assert.Equal(t, "fine", obj["analysis"])
}

func TestParseObjectRecoversFromProse(t *testing.T) {
	obj, ok := parseObject(`Sure! {"match_score": 80, "missing_keywords": ["docker"], "suggestions": ["add docker"], "analysis": "ok"} Thanks.`)

	require.True(t, ok)
	assert.Equal(t, Result{
		MatchScore:      80,
		MissingKeywords: []string{"docker"},
		Suggestions:     []string{"add docker"},
		Analysis:        "ok",
	}, normalize(obj))
}

func TestParseObjectRecoversFromCodeFence(t *testing.T) {
	obj, ok := parseObject("```json\n{\"match_score\": 55}\n```")

	require.True(t, ok)
	assert.Equal(t, float64(55), obj["match_score"])
}

func TestParseObjectBracesInsideStrings(t *testing.T) {
	text := `Here you go: {"analysis": "close } with \"{quoted}\" text", "match_score": 40} and a stray } brace.`

	obj, ok := parseObject(text)

	require.True(t, ok)
	assert.Equal(t, `close } with "{quoted}" text`, obj["analysis"])
	assert.Equal(t, float64(40), obj["match_score"])
}

func TestParseObjectSkipsInvalidSpan(t *testing.T) {
	obj, ok := parseObject(`{not json} then {"match_score": 12}`)

	require.True(t, ok)
	assert.Equal(t, float64(12), obj["match_score"])
}

func TestParseObjectNested(t *testing.T) {
	obj, ok := parseObject(`result: {"analysis": "x", "meta": {"model": "m"}}`)

	require.True(t, ok)
	assert.Equal(t, map[string]any{"model": "m"}, obj["meta"])
}

func TestParseObjectFailures(t *testing.T) {
	for _, text := range []string{
		"not json at all",
		"",
		`["an", "array"]`,
		`{"unterminated": "value"`,
		"null",
	} {
		_, ok := parseObject(text)
		assert.False(t, ok, "input %q", text)
	}
}

func TestParseObjectEmptyObject(t *testing.T) {
	obj, ok := parseObject(`{}`)

	require.True(t, ok)
	assert.Empty(t, obj)
}

func TestParseObjectLongUnbalancedInput(t *testing.T) {
	_, ok := parseObject(strings.Repeat("{", 1<<16) + "x")
	assert.False(t, ok)

	_, ok = parseObject(strings.Repeat(`{"a": `, 1<<14))
	assert.False(t, ok)
}

func TestParseObjectNestedInsideUnclosedBrace(t *testing.T) {
	obj, ok := parseObject(`{ note: {"match_score": 9} trailing`)

	require.True(t, ok)
	assert.Equal(t, float64(9), obj["match_score"])
}

func TestBalancedSpans(t *testing.T) {
	text := `} {a {b} "}" c} {`

	assert.Equal(t, [][2]int{{2, 14}, {5, 7}}, balancedSpans(text))
}
