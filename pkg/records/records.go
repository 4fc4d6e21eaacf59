// Package records builds platform-tagged identity records from resolved
// grids and merges rows that share an email within one platform.
package records

import (
	"github.com/agentstation/learnmerge/pkg/normalize"
)

// Platform names a source system.
type Platform string

// Default platform labels.
const (
	PlatformTalent    Platform = "Talent"
	PlatformPharmacy  Platform = "Pharmacy"
	PlatformDirectory Platform = "Master"
)

// String returns the platform label.
func (p Platform) String() string {
	return string(p)
}

// DefaultRole is assigned when an export has no role column or value.
const DefaultRole = "student"

// UnknownName is displayed for records without a name.
const UnknownName = "Unknown"

// IdentityRecord is one learner account on one platform.
type IdentityRecord struct {
	ID               string   `json:"id" yaml:"id"`
	FullName         string   `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Email            string   `json:"email" yaml:"email"`
	Phone            string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Role             string   `json:"role" yaml:"role"`
	LastLogin        string   `json:"lastLogin,omitempty" yaml:"lastLogin,omitempty"`
	Platform         Platform `json:"platform" yaml:"platform"`
	CompletedCourses []string `json:"completedCourseNames" yaml:"completedCourseNames"`
	SourceRow        int      `json:"sourceRow,omitempty" yaml:"sourceRow,omitempty"`
}

// DisplayName returns the full name, or UnknownName when blank.
func (r IdentityRecord) DisplayName() string {
	if r.FullName == "" {
		return UnknownName
	}
	return r.FullName
}

// CompletedCount is the number of distinct completed courses.
func (r IdentityRecord) CompletedCount() int {
	return len(r.CompletedCourses)
}

// CourseKeys returns the set of normalized completed-course names.
func (r IdentityRecord) CourseKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(r.CompletedCourses))
	for _, c := range r.CompletedCourses {
		keys[normalize.Clean(c)] = struct{}{}
	}
	return keys
}

// HasCompleted reports whether course is in the completed set.
func (r IdentityRecord) HasCompleted(course string) bool {
	key := normalize.Clean(course)
	for _, c := range r.CompletedCourses {
		if normalize.Clean(c) == key {
			return true
		}
	}
	return false
}

// DirectoryRecord is one employee in the authoritative directory.
type DirectoryRecord struct {
	EmployeeCode  string `json:"employeeCode" yaml:"employeeCode"`
	FullName      string `json:"fullName" yaml:"fullName"`
	OfficialEmail string `json:"officialEmail" yaml:"officialEmail"`
	PersonalEmail string `json:"personalEmail,omitempty" yaml:"personalEmail,omitempty"`
	JobTitle      string `json:"jobTitle,omitempty" yaml:"jobTitle,omitempty"`
}

// Report summarises one build pass.
type Report struct {
	Platform       Platform `json:"platform" yaml:"platform"`
	DataRows       int      `json:"dataRows" yaml:"dataRows"`
	Records        int      `json:"records" yaml:"records"`
	SkippedNoEmail int      `json:"skippedNoEmail" yaml:"skippedNoEmail"`
	Merged         int      `json:"merged,omitempty" yaml:"merged,omitempty"`
	Warnings       []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// appendUnique adds course to list unless its normalized key is already
// present. seen is updated in place.
func appendUnique(list []string, seen map[string]struct{}, course string) []string {
	key := normalize.Clean(course)
	if _, ok := seen[key]; ok {
		return list
	}
	seen[key] = struct{}{}
	return append(list, course)
}
