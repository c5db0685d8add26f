package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	defaults := Options{Temperature: 0.7, Model: "base"}

	assert.Equal(t, defaults, Resolve(defaults))

	got := Resolve(defaults, WithModel("override"), WithMaxTokens(64))
	assert.Equal(t, Options{Temperature: 0.7, MaxTokens: 64, Model: "override"}, got)
	assert.Equal(t, "base", defaults.Model)
}

func TestUserPrompt(t *testing.T) {
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hi"}}, UserPrompt("hi"))
}
