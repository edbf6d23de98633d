package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPlan(t *testing.T) {
	assert := assert.New(t)
	plan := DefaultPlan()

	assert.Equal("do_something", plan.Name)
	assert.Equal(
		[]string{"do_something", "aaa", "bbb", "ccc", "ddd", "eee", "fff"},
		plan.Spans(),
	)

	assert.Equal(Log("trace-bbb"), plan.Actions[0])
	aaa := plan.Actions[1].(Step)
	assert.Equal(Log("trace-bbb"), aaa.Actions[1])
	ccc := aaa.Actions[2].(Step)
	assert.Equal(Log("trace-ccc"), ccc.Actions[1])
}

func TestNewStep(t *testing.T) {
	assert := assert.New(t)

	s := NewStep("empty")
	assert.Equal("empty", s.Name)
	assert.Empty(s.Actions)
	assert.Equal([]string{"empty"}, s.Spans())
}
