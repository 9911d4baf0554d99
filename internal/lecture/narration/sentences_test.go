package narration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lectern/internal/domain/lecture"
)

func TestBuildSentenceQueue(t *testing.T) {
	assert.Equal(t, []string{
		"Title: T.",
		"Introduction: Hello world.",
		"H.",
		"One.",
		"Two.",
		"Conclusion: Bye.",
	}, BuildSentenceQueue(sampleScript))
}

func TestBuildSentenceQueueIsDeterministic(t *testing.T) {
	script := lecture.Script{
		Title:        "Photosynthesis",
		Introduction: "Plants eat light! Really?",
		Sections: []lecture.Section{
			{Heading: "Light reactions", Content: "Water is split... Oxygen leaves."},
			{Heading: "Calvin cycle", Content: "Carbon is fixed."},
		},
		Conclusion: "That is all.",
	}

	first := BuildSentenceQueue(script)
	assert.Equal(t, first, BuildSentenceQueue(script))
	assert.Equal(t, []string{
		"Title: Photosynthesis.",
		"Introduction: Plants eat light!",
		"Really?",
		"Light reactions.",
		"Water is split...",
		"Oxygen leaves.",
		"Calvin cycle.",
		"Carbon is fixed.",
		"Conclusion: That is all.",
	}, first)
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "no terminal punctuation", text: "just a fragment", want: []string{}},
		{name: "trailing fragment dropped", text: "One. Two", want: []string{"One."}},
		{name: "lone mark after whitespace", text: "A.   . B!", want: []string{"A.", ".", "B!"}},
		{name: "mixed marks", text: "Why?! Because.", want: []string{"Why?!", "Because."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}

func TestBuildSentenceQueueDropsUnterminatedConclusion(t *testing.T) {
	script := lecture.Script{Title: "T", Introduction: "Hi.", Conclusion: "no period"}
	assert.Equal(t, []string{"Title: T.", "Introduction: Hi."}, BuildSentenceQueue(script))
}
