/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for CantiereLog: users of the
// application, public-works contract projects, their dated site-visit reports
// (verbali), and project sharing grants. The records serialize to JSON; the
// store persists each one as a single unit keyed by ID.

import "time"

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusSuspended:
		return true
	}
	return false
}

// User is an identity record. Password is an opaque secret compared by
// equality; hashing it is left to the calling layer. Email is unique across
// the store, case-sensitive as stored.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"password"`
	DisplayName   string     `json:"displayName"`
	IsSystemAdmin bool       `json:"isSystemAdmin"`
	Status        UserStatus `json:"status"`
}

// Project is one construction contract. The Contract block is a large nested
// configuration the store treats as opaque; only ID, OwnerID, LastModified
// and DisplayOrder matter to it.
type Project struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	LastModified time.Time `json:"lastModified"`
	DisplayOrder int       `json:"displayOrder"`
	Contract     Contract  `json:"contract"`
}

// Contract carries the contract configuration edited through the forms:
// awarding entity, terms, phase data, subject/role assignments and the
// contractor structure.
type Contract struct {
	EntityName  string              `json:"entityName,omitempty"`
	Title       string              `json:"title,omitempty"`
	Terms       ContractTerms       `json:"terms"`
	Phases      []Phase             `json:"phases,omitempty"`
	Subjects    []SubjectAssignment `json:"subjects,omitempty"`
	Contractors []Contractor        `json:"contractors,omitempty"`
}

// ContractTerms holds the commercial terms of the contract.
type ContractTerms struct {
	ContractNumber string  `json:"contractNumber,omitempty"`
	SignedOn       string  `json:"signedOn,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	DurationDays   int     `json:"durationDays,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// Phase is one execution phase of the works.
type Phase struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// SubjectAssignment binds a person to a contract role (works director,
// safety coordinator, inspector, ...).
type SubjectAssignment struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// Contractor is one company in the contractor structure, possibly a
// subcontractor of another.
type Contractor struct {
	Name     string `json:"name"`
	TaxCode  string `json:"taxCode,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

// Verbale is one dated site-visit report belonging to exactly one project.
// ProjectID is a foreign reference by convention only; the store does not
// enforce it (accepted limitation, noted in the store package).
type Verbale struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	CreatedAt   time.Time  `json:"createdAt"`
	VisitNumber int        `json:"visitNumber"`
	VisitedAt   time.Time  `json:"visitedAt"`
	Weather     string     `json:"weather,omitempty"`
	Narrative   string     `json:"narrative,omitempty"`
	Findings    string     `json:"findings,omitempty"`
	Photos      []Photo    `json:"photos,omitempty"`
	WorkItems   []WorkItem `json:"workItems,omitempty"`
}

// Photo is one attachment of a verbale. Path points into the user's photo
// folder; the store persists only the reference.
type Photo struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Caption string `json:"caption,omitempty"`
}

// WorkItem is one line of works observed during the visit.
type WorkItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity,omitempty"`
	Unit        string  `json:"unit,omitempty"`
}

// PermissionRole is the access level of a sharing grant.
type PermissionRole string

const (
	RoleViewer PermissionRole = "viewer"
	RoleEditor PermissionRole = "editor"
	RoleAdmin  PermissionRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r PermissionRole) Valid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// Permission is a sharing grant for a project. UserEmail may not yet
// correspond to a registered user. Grants are not revoked when the target
// user or project goes away.
type Permission struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"projectId"`
	UserEmail string         `json:"userEmail"`
	Role      PermissionRole `json:"role"`
}
