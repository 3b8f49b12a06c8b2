package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusOpen, StatusInProgress},
		{StatusOpen, StatusCompleted},
		{StatusInProgress, StatusOnHold},
		{StatusInProgress, StatusCompleted},
		{StatusOnHold, StatusInProgress},
		{StatusCompleted, StatusClosed},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		{StatusOpen, StatusOnHold},
		{StatusOpen, StatusClosed},
		{StatusOnHold, StatusCompleted},
		{StatusOnHold, StatusOpen},
		{StatusCompleted, StatusOpen},
		{StatusCompleted, StatusInProgress},
		{StatusClosed, StatusOpen},
		{StatusClosed, StatusCompleted},
		{StatusInProgress, StatusOpen},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}

	assert.False(t, CanTransition("bogus", StatusOpen))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusClosed))
	assert.False(t, IsTerminalStatus(StatusCompleted))
	assert.False(t, IsTerminalStatus(StatusOpen))
}

func TestActiveStatuses(t *testing.T) {
	active := ActiveStatuses()
	assert.ElementsMatch(t, []string{StatusOpen, StatusInProgress, StatusOnHold}, active)
	assert.NotContains(t, active, StatusCompleted)
	assert.NotContains(t, active, StatusClosed)
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidType(WorkOrderTypePM))
	assert.False(t, IsValidType("inspection"))

	assert.True(t, IsValidPriority(PriorityCritical))
	assert.False(t, IsValidPriority("urgent"))

	assert.True(t, IsValidStatus(StatusOnHold))
	assert.False(t, IsValidStatus("cancelled"))
}
