package island

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ValidateMarkup parses a rendered fragment and reports structural problems
// the HTML parser cannot recover from, plus unbalanced island wrappers. The
// dev server runs this on rendered output when markup validation is enabled;
// it is a smoke check, not a conformance checker.
func ValidateMarkup(fragment string) error {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	depth := 0
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("parsing markup: %w", err)
			}
			if depth != 0 {
				return fmt.Errorf("unbalanced <%s> wrappers in rendered output", Tag)
			}
			return nil
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == Tag {
				depth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == Tag {
				depth--
				if depth < 0 {
					return fmt.Errorf("closing </%s> without a matching open tag", Tag)
				}
			}
		}
	}
}
