package pathfilter

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_PassThroughDefault(t *testing.T) {
	m := New(nil, nil)

	assert.True(t, m.Test("src/components/Counter.jsx"))
	assert.True(t, m.Test("/abs/path/App.svelte"))
	assert.True(t, m.Test("no-extension"))
}

func TestMatcher_RejectsVirtualIdentifiers(t *testing.T) {
	m := New(nil, nil)

	assert.False(t, m.Test(""))
	assert.False(t, m.Test("\x00virtual:module"))
	assert.False(t, m.Test("src/\x00internal"))
}

func TestMatcher_IncludeOnly(t *testing.T) {
	m := New([]Pattern{MustParse("**/react/*")}, nil)

	assert.True(t, m.Test("src/components/react/Button.jsx"))
	assert.False(t, m.Test("src/components/preact/Button.jsx"))
	assert.False(t, m.Test("Button.jsx"))
}

func TestMatcher_ExcludeWins(t *testing.T) {
	m := New(
		[]Pattern{MustParse("**/*.jsx")},
		[]Pattern{MustParse("**/legacy/**")},
	)

	assert.True(t, m.Test("src/new/App.jsx"))
	assert.False(t, m.Test("src/legacy/App.jsx"), "exclude must win over a matching include")
}

func TestMatcher_ExcludeOnly(t *testing.T) {
	m := New(nil, []Pattern{MustParse("**/*.test.jsx")})

	assert.True(t, m.Test("src/App.jsx"))
	assert.False(t, m.Test("src/App.test.jsx"))
}

func TestMatcher_RegexpPatterns(t *testing.T) {
	m := New([]Pattern{Regexp(regexp.MustCompile(`\.svelte$`))}, nil)

	assert.True(t, m.Test("src/App.svelte"))
	assert.False(t, m.Test("src/App.vue"))
}

func TestMatcher_RegexpReuseIsStateless(t *testing.T) {
	// A single compiled pattern shared across many calls must give the same
	// answer for the same input every time.
	re := regexp.MustCompile(`components/.*\.jsx$`)
	m := New([]Pattern{Regexp(re)}, nil)

	for i := 0; i < 10; i++ {
		assert.True(t, m.Test("src/components/A.jsx"))
		assert.False(t, m.Test("src/pages/A.vue"))
	}
}

func TestMatcher_NormalizesSeparators(t *testing.T) {
	m := New([]Pattern{MustParse("src/**/*.jsx")}, nil)

	assert.True(t, m.Test(`src\components\App.jsx`))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		path    string
		matches bool
	}{
		{"glob", "**/a/*", "x/y/a/Foo", true},
		{"glob no match", "**/a/*", "x/y/b/Foo", false},
		{"regexp", `/\.jsx$/`, "App.jsx", true},
		{"regexp no match", `/\.jsx$/`, "App.tsx", false},
		{"plain slash is glob", "/", "/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			require.NoError(t, err)
			m := New([]Pattern{p}, nil)
			assert.Equal(t, tt.matches, m.Test(tt.path))
		})
	}
}

func TestParse_InvalidRegexp(t *testing.T) {
	_, err := Parse(`/[unclosed/`)
	assert.Error(t, err)
}

func TestParse_InvalidGlob(t *testing.T) {
	_, err := Parse(`a[`)
	assert.Error(t, err)
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParse(`/[unclosed/`) })
}

func TestMatcher_IncludeAndExcludeRegexGlobMix(t *testing.T) {
	m := New(
		[]Pattern{MustParse("**/*.jsx"), MustParse(`/\.tsx$/`)},
		[]Pattern{MustParse(`/node_modules/`)},
	)

	assert.True(t, m.Test("src/App.jsx"))
	assert.True(t, m.Test("src/App.tsx"))
	assert.False(t, m.Test("node_modules/pkg/App.jsx"))
	assert.False(t, m.Test("src/App.vue"))
}
