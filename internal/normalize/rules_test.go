package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseURLPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "doubled prefix",
			input:    `page.goto("http://localhost:3001/http://localhost:3001/login")`,
			expected: `page.goto("http://localhost:3001/login")`,
		},
		{
			name:     "tripled prefix",
			input:    "https://app.test/https://app.test/https://app.test/api",
			expected: "https://app.test/api",
		},
		{
			name:     "different hosts are kept",
			input:    "http://a.test/http://b.test/x",
			expected: "http://a.test/http://b.test/x",
		},
		{
			name:     "several urls on separate lines",
			input:    "u1 = 'http://h:1/http://h:1/a'\nu2 = 'http://h:1/b'\n",
			expected: "u1 = 'http://h:1/a'\nu2 = 'http://h:1/b'\n",
		},
		{
			name:     "no urls",
			input:    "print('ok')",
			expected: "print('ok')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CollapseURLPrefixes(tt.input))
		})
	}
}

func TestTimeoutRewriter(t *testing.T) {
	rule := TimeoutRewriter(map[int]int{10000: 60000, 5000: 30000, 3000: 15000})

	input := "wait(timeout=10000)\nclick(timeout=5000)\nfill(timeout=3000)\nsleep(timeout=2000)\nx(timeout=50000)\n"
	expected := "wait(timeout=60000)\nclick(timeout=30000)\nfill(timeout=15000)\nsleep(timeout=2000)\nx(timeout=50000)\n"
	assert.Equal(t, expected, rule.Apply(input))

	t.Run("literal must close the call", func(t *testing.T) {
		assert.Equal(t, "f(timeout=5000, force=True)", rule.Apply("f(timeout=5000, force=True)"))
	})

	t.Run("no rewrites", func(t *testing.T) {
		assert.Equal(t, "f(timeout=5000)", TimeoutRewriter(nil).Apply("f(timeout=5000)"))
	})

	t.Run("rewrites apply once", func(t *testing.T) {
		chained := TimeoutRewriter(map[int]int{3000: 5000, 5000: 30000})
		assert.Equal(t, "f(timeout=5000)", chained.Apply("f(timeout=3000)"))
	})
}
