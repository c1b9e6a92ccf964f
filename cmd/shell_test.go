package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"list", []string{"list"}},
		{"  show   2022\t0022100001 ", []string{"show", "2022", "0022100001"}},
		{`heatmap 2022 --player "LeBron James"`, []string{"heatmap", "2022", "--player", "LeBron James"}},
		{`heatmap 2022 --team "Los Angeles Lakers" --svg out.svg`, []string{"heatmap", "2022", "--team", "Los Angeles Lakers", "--svg", "out.svg"}},
		{`options "" player`, []string{"options", "", "player"}},
		{`a"b c"d`, []string{"ab cd"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitLineUnterminatedQuote(t *testing.T) {
	_, err := splitLine(`heatmap 2022 --player "LeBron`)
	assert.ErrorContains(t, err, "unterminated quote")
}
