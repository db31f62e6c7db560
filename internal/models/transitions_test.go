package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		want   bool
	}{
		{"call", StatusWaiting, true},
		{"call", StatusServing, false},
		{"call", StatusSkipped, false},
		{"complete", StatusServing, true},
		{"complete", StatusWaiting, false},
		{"skip", StatusServing, true},
		{"skip", StatusCompleted, false},
		{"recall", StatusCompleted, true},
		{"recall", StatusSkipped, true},
		{"recall", StatusServing, false},
		{"requeue", StatusSkipped, true},
		{"requeue", StatusCompleted, false},
		{"cancel", StatusWaiting, true},
		{"cancel", StatusServing, false},
		{"no_show", StatusServing, true},
		{"transfer", StatusServing, true},
		{"transfer", StatusWaiting, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidTransition(tc.action, tc.from),
			"%s from %s", tc.action, tc.from)
	}
}

func TestUnknownActionNeverTransitions(t *testing.T) {
	assert.False(t, ValidTransition("promote", StatusWaiting))
	assert.False(t, ValidTransition("", StatusWaiting))
}
