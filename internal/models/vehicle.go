package models

import (
	"time"

	"gorm.io/gorm"
)

type VehicleProvider string

const (
	ProviderA VehicleProvider = "provider_a"
	ProviderB VehicleProvider = "provider_b"
)

// IsValid checks if the provider is one of the known vehicle providers
func (p VehicleProvider) IsValid() bool {
	return p == ProviderA || p == ProviderB
}

// Vehicle represents a cab taken on lease from a provider and sub-leased
// to shift drivers
type Vehicle struct {
	gorm.Model
	Number       string          `json:"number" gorm:"column:number;unique;not null"`
	Provider     VehicleProvider `json:"provider" gorm:"column:provider;not null"`
	OnboardedAt  *time.Time      `json:"onboardedAt,omitempty" gorm:"column:onboarded_at"`
	OffboardedAt *time.Time      `json:"offboardedAt,omitempty" gorm:"column:offboarded_at"`
	DocumentURL  string          `json:"documentUrl,omitempty" gorm:"column:document_url"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
