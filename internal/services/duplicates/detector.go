// Package duplicates finds students that are probably recorded twice and
// decides which copies to drop.
package duplicates

import (
	"github.com/google/uuid"

	"student-sync-backend/internal/models"
	"student-sync-backend/internal/services/matching"
)

// Strategy groups students whose selected fields are all equal.
type Strategy struct {
	Name   string
	Reason string
	Fields []matching.Field
}

// DefaultStrategies run strictest first.
var DefaultStrategies = []Strategy{
	{
		Name:   "exact",
		Reason: "Same name, date of birth and phone",
		Fields: []matching.Field{
			matching.FirstName, matching.FatherName, matching.GrandfatherName, matching.MotherName,
			matching.DateOfBirth, matching.Phone,
		},
	},
	{
		Name:   "name_dob",
		Reason: "Same name and date of birth",
		Fields: []matching.Field{
			matching.FirstName, matching.FatherName, matching.GrandfatherName, matching.MotherName,
			matching.DateOfBirth,
		},
	},
}

type DuplicateGroup struct {
	Key      string           `json:"key"`
	Strategy string           `json:"strategy"`
	Reason   string           `json:"reason"`
	Students []models.Student `json:"students"`
}

type Detector struct {
	strategies []Strategy
}

// NewDetector uses DefaultStrategies when none are given.
func NewDetector(strategies ...Strategy) *Detector {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return &Detector{strategies: strategies}
}

// Detect returns groups of two or more students. Groups come strategy by
// strategy, each in the order its key was first seen. A student claimed by
// an earlier group is not considered by later strategies.
func (d *Detector) Detect(students []models.Student) []DuplicateGroup {
	claimed := make(map[uuid.UUID]bool)
	groups := []DuplicateGroup{}

	for _, strategy := range d.strategies {
		var order []string
		buckets := make(map[string][]models.Student)

		for _, s := range students {
			if claimed[s.ID] {
				continue
			}
			key := strategy.Name + ":" + matching.IdentityKey(s, strategy.Fields...)
			if _, seen := buckets[key]; !seen {
				order = append(order, key)
			}
			buckets[key] = append(buckets[key], s)
		}

		for _, key := range order {
			members := buckets[key]
			if len(members) < 2 {
				continue
			}
			for _, m := range members {
				claimed[m.ID] = true
			}
			groups = append(groups, DuplicateGroup{
				Key:      key,
				Strategy: strategy.Name,
				Reason:   strategy.Reason,
				Students: members,
			})
		}
	}

	return groups
}

// KeepCandidate is the oldest member of the group; ties go to the member
// listed first.
func KeepCandidate(group DuplicateGroup) models.Student {
	keep := group.Students[0]
	for _, s := range group.Students[1:] {
		if s.CreatedAt.Before(keep.CreatedAt) {
			keep = s
		}
	}
	return keep
}

// AutoResolve returns the ids to delete: every member except each group's
// KeepCandidate.
func AutoResolve(groups []DuplicateGroup) []uuid.UUID {
	ids := []uuid.UUID{}
	for _, g := range groups {
		keep := KeepCandidate(g)
		for _, s := range g.Students {
			if s.ID != keep.ID {
				ids = append(ids, s.ID)
			}
		}
	}
	return ids
}
