// Package services implements the planning-side application services: the
// Session Request Builder, Placement Engine, Relocation Engine, and Weekly
// Planner.
package services

import (
	"github.com/felixgeelhaar/schedgen/internal/timetable/domain"
	"github.com/google/uuid"
)

// RequestBuilder translates a course and its links into the multiset of
// session requests still owed for this generation run.
type RequestBuilder struct{}

// NewRequestBuilder creates a new Session Request Builder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

// Build produces the queue of requests for course, given its links and the
// sessions already persisted for each (class-group, subgroup) tuple.
func (b *RequestBuilder) Build(course *domain.Course, links []*domain.CourseClassLink, alreadyPlaced map[placedKey]int) []domain.SessionRequest {
	var requests []domain.SessionRequest
	duration := course.SessionDuration()

	switch course.SessionType() {
	case domain.SessionTypeCM:
		attending := make([]uuid.UUID, 0, len(links))
		for _, link := range links {
			attending = append(attending, link.ClassGroupID())
		}
		placed := alreadyPlaced[placedKey{course.ID(), uuid.Nil, ""}]
		remaining := course.SessionsRequired() - placed
		var preferredTeacher uuid.UUID
		if len(links) > 0 {
			preferredTeacher = links[0].TeacherAID()
		}
		for i := 0; i < remaining; i++ {
			requests = append(requests, domain.NewCMRequest(course.ID(), attending, duration, preferredTeacher))
		}

	case domain.SessionTypeSAE:
		for _, link := range links {
			placed := alreadyPlaced[placedKey{course.ID(), link.ClassGroupID(), ""}]
			remaining := course.SessionsRequired() - placed
			for i := 0; i < remaining; i++ {
				requests = append(requests, domain.NewSAERequest(course.ID(), link.ClassGroupID(), duration, link.TeacherAID(), link.TeacherBID()))
			}
		}

	case domain.SessionTypeEval:
		for _, link := range links {
			placed := alreadyPlaced[placedKey{course.ID(), link.ClassGroupID(), ""}]
			remaining := course.SessionsRequired() - placed
			for i := 0; i < remaining; i++ {
				requests = append(requests, domain.NewEvalRequest(course.ID(), link.ClassGroupID(), duration, link.TeacherAID()))
			}
		}

	case domain.SessionTypeTD:
		for _, link := range links {
			placed := alreadyPlaced[placedKey{course.ID(), link.ClassGroupID(), ""}]
			remaining := course.SessionsRequired() - placed
			for i := 0; i < remaining; i++ {
				requests = append(requests, domain.NewTDRequest(course.ID(), link.ClassGroupID(), duration, link.TeacherAID()))
			}
		}

	case domain.SessionTypeTP:
		for _, link := range links {
			if link.IsSplit() {
				requests = append(requests, b.tpSubgroupRequests(course, link, link.SubgroupALabel(), link.TeacherAID(), alreadyPlaced)...)
				requests = append(requests, b.tpSubgroupRequests(course, link, link.SubgroupBLabel(), link.TeacherBID(), alreadyPlaced)...)
			} else {
				placed := alreadyPlaced[placedKey{course.ID(), link.ClassGroupID(), ""}]
				remaining := course.SessionsRequired() - placed
				for i := 0; i < remaining; i++ {
					requests = append(requests, domain.NewTPRequest(course.ID(), link.ClassGroupID(), "", duration, link.TeacherAID()))
				}
			}
		}
	}

	return requests
}

func (b *RequestBuilder) tpSubgroupRequests(course *domain.Course, link *domain.CourseClassLink, subgroup domain.SubgroupLabel, teacher uuid.UUID, alreadyPlaced map[placedKey]int) []domain.SessionRequest {
	placed := alreadyPlaced[placedKey{course.ID(), link.ClassGroupID(), subgroup}]
	remaining := course.SessionsRequired() - placed
	duration := course.SessionDuration()
	requests := make([]domain.SessionRequest, 0, remaining)
	for i := 0; i < remaining; i++ {
		requests = append(requests, domain.NewTPRequest(course.ID(), link.ClassGroupID(), subgroup, duration, teacher))
	}
	return requests
}

// placedKey identifies a (course, class-group, subgroup) tuple for counting
// sessions already produced in prior generation runs.
type placedKey struct {
	CourseID     uuid.UUID
	ClassGroupID uuid.UUID
	Subgroup     domain.SubgroupLabel
}

// CountPlaced tallies existing sessions by (course, class-group, subgroup).
func CountPlaced(existing []*domain.Session) map[placedKey]int {
	counts := make(map[placedKey]int)
	for _, s := range existing {
		if s.Kind() == domain.SessionTypeCM {
			// CM session: count once per course regardless of class group.
			counts[placedKey{s.CourseID(), uuid.Nil, ""}]++
			continue
		}
		counts[placedKey{s.CourseID(), s.ClassGroupID(), s.SubgroupLabel()}]++
	}
	return counts
}
