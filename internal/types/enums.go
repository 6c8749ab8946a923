package types

import (
	"fmt"
	"strings"
)

// String-backed enums. External input is parsed case-insensitively once at
// the handler boundary; everything past it works with the typed values.

type AssetStatus string

const (
	AssetStatusDraft             AssetStatus = "Draft"
	AssetStatusInReview          AssetStatus = "InReview"
	AssetStatusApproved          AssetStatus = "Approved"
	AssetStatusRevisionRequested AssetStatus = "RevisionRequested"
)

func ParseAssetStatus(s string) (AssetStatus, error) {
	for _, v := range []AssetStatus{AssetStatusDraft, AssetStatusInReview, AssetStatusApproved, AssetStatusRevisionRequested} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid status '%s'. Valid values: Draft, InReview, Approved, RevisionRequested", s)
}

type ApprovalActionType string

const (
	ApprovalActionApproved          ApprovalActionType = "Approved"
	ApprovalActionRevisionRequested ApprovalActionType = "RevisionRequested"
)

func ParseApprovalActionType(s string) (ApprovalActionType, error) {
	for _, v := range []ApprovalActionType{ApprovalActionApproved, ApprovalActionRevisionRequested} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid action type '%s'. Valid values: Approved, RevisionRequested", s)
}

type AuthorType string

const (
	AuthorTypeAgency AuthorType = "Agency"
	AuthorTypeClient AuthorType = "Client"
)

type WorkspaceStatus string

const (
	WorkspaceStatusActive    WorkspaceStatus = "Active"
	WorkspaceStatusInReview  WorkspaceStatus = "InReview"
	WorkspaceStatusCompleted WorkspaceStatus = "Completed"
	WorkspaceStatusArchived  WorkspaceStatus = "Archived"
)

func ParseWorkspaceStatus(s string) (WorkspaceStatus, error) {
	for _, v := range []WorkspaceStatus{WorkspaceStatusActive, WorkspaceStatusInReview, WorkspaceStatusCompleted, WorkspaceStatusArchived} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid status '%s'. Valid values: Active, InReview, Completed, Archived", s)
}

type UserRole string

const (
	UserRoleAdmin    UserRole = "Admin"
	UserRoleManager  UserRole = "Manager"
	UserRoleDesigner UserRole = "Designer"
)

func ParseUserRole(s string) (UserRole, error) {
	for _, v := range []UserRole{UserRoleAdmin, UserRoleManager, UserRoleDesigner} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid role '%s'. Valid values: Admin, Manager, Designer", s)
}

