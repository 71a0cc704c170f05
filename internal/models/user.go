package models

import "time"

// UserRole represents the available roles within an organization.
type UserRole string

const (
	RoleOperator UserRole = "operator"
	RoleCEO      UserRole = "ceo"
	RoleCounsel  UserRole = "counsel"
	RoleAdmin    UserRole = "admin"
)

// SubscriptionTier represents the billing plan attached to a user.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// User represents an application user persisted under the user_<email> key.
type User struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"password_hash"`
	Role             UserRole         `json:"role"`
	OrganizationID   string           `json:"organization_id"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
