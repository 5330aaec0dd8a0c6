package domain

import (
	sharedDomain "github.com/felixgeelhaar/schedgen/internal/shared/domain"
	"github.com/google/uuid"
)

// SubgroupLabel identifies half of a split class group.
type SubgroupLabel string

const (
	SubgroupA SubgroupLabel = "A"
	SubgroupB SubgroupLabel = "B"
)

// CourseClassLink attaches a class group to a course, declaring whether the
// group is split into subgroups and which teachers are preferred for each.
type CourseClassLink struct {
	sharedDomain.BaseEntity
	courseID       uuid.UUID
	classGroupID   uuid.UUID
	groupCount     int // 1 or 2
	teacherAID     uuid.UUID
	teacherBID     uuid.UUID
	subgroupALabel SubgroupLabel
	subgroupBLabel SubgroupLabel
}

// NewCourseClassLink creates a new course/class-group link.
func NewCourseClassLink(courseID, classGroupID uuid.UUID, groupCount int, teacherAID, teacherBID uuid.UUID) *CourseClassLink {
	link := &CourseClassLink{
		BaseEntity:   sharedDomain.NewBaseEntity(),
		courseID:     courseID,
		classGroupID: classGroupID,
		groupCount:   groupCount,
		teacherAID:   teacherAID,
		teacherBID:   teacherBID,
	}
	if groupCount == 2 {
		link.subgroupALabel = SubgroupA
		link.subgroupBLabel = SubgroupB
	}
	return link
}

func (l *CourseClassLink) CourseID() uuid.UUID           { return l.courseID }
func (l *CourseClassLink) ClassGroupID() uuid.UUID       { return l.classGroupID }
func (l *CourseClassLink) GroupCount() int               { return l.groupCount }
func (l *CourseClassLink) TeacherAID() uuid.UUID         { return l.teacherAID }
func (l *CourseClassLink) TeacherBID() uuid.UUID         { return l.teacherBID }
func (l *CourseClassLink) SubgroupALabel() SubgroupLabel { return l.subgroupALabel }
func (l *CourseClassLink) SubgroupBLabel() SubgroupLabel { return l.subgroupBLabel }

// IsSplit reports whether the class group attends this course as two subgroups.
func (l *CourseClassLink) IsSplit() bool { return l.groupCount == 2 }

// LinkedTeachers returns the teachers declared on this link, in declaration order.
func (l *CourseClassLink) LinkedTeachers() []uuid.UUID {
	teachers := make([]uuid.UUID, 0, 2)
	if l.teacherAID != uuid.Nil {
		teachers = append(teachers, l.teacherAID)
	}
	if l.teacherBID != uuid.Nil {
		teachers = append(teachers, l.teacherBID)
	}
	return teachers
}
