package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCourseClassLink_SplitAssignsSubgroupLabels(t *testing.T) {
	link := NewCourseClassLink(uuid.New(), uuid.New(), 2, uuid.New(), uuid.New())

	assert.True(t, link.IsSplit())
	assert.Equal(t, SubgroupA, link.SubgroupALabel())
	assert.Equal(t, SubgroupB, link.SubgroupBLabel())
	assert.Len(t, link.LinkedTeachers(), 2)
}

func TestCourseClassLink_SingleGroupHasNoSubgroupLabels(t *testing.T) {
	teacherA := uuid.New()
	link := NewCourseClassLink(uuid.New(), uuid.New(), 1, teacherA, uuid.Nil)

	assert.False(t, link.IsSplit())
	assert.Equal(t, SubgroupLabel(""), link.SubgroupALabel())
	assert.Equal(t, []uuid.UUID{teacherA}, link.LinkedTeachers())
}
