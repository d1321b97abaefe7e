package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raglab/chainrag/schema"
)

func TestHasEnoughInfo_NoRecordsNeverStops(t *testing.T) {
	provider := &fakeLLM{t: t} // any llm call fails the test
	chain := newTestChain(provider)

	enough, cost, err := chain.hasEnoughInfo(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.False(t, enough)
	assert.Zero(t, cost)
}

func TestHasEnoughInfo_StrictYesMatch(t *testing.T) {
	records := []schema.IntermediateRecord{{SubQuery: "sub", Answer: "ans"}}
	cases := []struct {
		reply  string
		enough bool
	}{
		{"yes", true},
		{"Yes", true},
		{" YES \n", true},
		{"<think>weighing it</think>yes", true},
		{"Yes, probably", false},
		{"yes.", false},
		{"no", false},
		{"", false},
	}
	for _, tc := range cases {
		provider := &fakeLLM{t: t, handler: func(p string) (string, error) {
			require.True(t, isReflectionPrompt(p))
			return tc.reply, nil
		}}
		chain := newTestChain(provider)

		enough, cost, err := chain.hasEnoughInfo(context.Background(), "q", records)
		require.NoError(t, err)
		assert.Equal(t, tc.enough, enough, "reply %q", tc.reply)
		assert.Equal(t, 7, cost)
	}
}

func TestNextSubQuery_StripsThinkBlock(t *testing.T) {
	provider := &fakeLLM{t: t, handler: func(p string) (string, error) {
		require.True(t, isFollowupPrompt(p))
		return "<think>what is still missing?</think>\nWho founded Company X?", nil
	}}
	chain := newTestChain(provider)

	sub, cost, err := chain.nextSubQuery(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, "Who founded Company X?", sub)
	assert.Equal(t, 7, cost)
}
