package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "select star",
			input: "select * from users",
			want: []Token{
				{Kind: IDENT, Text: "select"},
				{Kind: STAR, Text: "*"},
				{Kind: IDENT, Text: "from"},
				{Kind: IDENT, Text: "users"},
			},
		},
		{
			name:  "quoted string keeps its quotes",
			input: `where name = "john doe"`,
			want: []Token{
				{Kind: IDENT, Text: "where"},
				{Kind: IDENT, Text: "name"},
				{Kind: OP, Text: "="},
				{Kind: STRING, Text: `"john doe"`},
			},
		},
		{
			name:  "maximal munch operators",
			input: "a <= b <> c >= d != e < f > g",
			want: []Token{
				{Kind: IDENT, Text: "a"},
				{Kind: OP, Text: "<="},
				{Kind: IDENT, Text: "b"},
				{Kind: OP, Text: "<>"},
				{Kind: IDENT, Text: "c"},
				{Kind: OP, Text: ">="},
				{Kind: IDENT, Text: "d"},
				{Kind: OP, Text: "!="},
				{Kind: IDENT, Text: "e"},
				{Kind: OP, Text: "<"},
				{Kind: IDENT, Text: "f"},
				{Kind: OP, Text: ">"},
				{Kind: IDENT, Text: "g"},
			},
		},
		{
			name:  "commas are separators, not tokens",
			input: "insert into t values (1, 2, 3)",
			want: []Token{
				{Kind: IDENT, Text: "insert"},
				{Kind: IDENT, Text: "into"},
				{Kind: IDENT, Text: "t"},
				{Kind: IDENT, Text: "values"},
				{Kind: LPAREN, Text: "("},
				{Kind: IDENT, Text: "1"},
				{Kind: IDENT, Text: "2"},
				{Kind: IDENT, Text: "3"},
				{Kind: RPAREN, Text: ")"},
			},
		},
		{
			name:  "qualified reference",
			input: "t1.k = t2.k",
			want: []Token{
				{Kind: IDENT, Text: "t1"},
				{Kind: DOT, Text: "."},
				{Kind: IDENT, Text: "k"},
				{Kind: OP, Text: "="},
				{Kind: IDENT, Text: "t2"},
				{Kind: DOT, Text: "."},
				{Kind: IDENT, Text: "k"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`select "unterminated`)
	assert.Error(t, err)
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "john doe", StripQuotes(`"john doe"`))
	assert.Equal(t, "john", StripQuotes(`'john'`))
}
