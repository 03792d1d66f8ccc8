package models

import (
	"gorm.io/gorm"
)

type VehicleType string

const (
	VehicleType2Wheeler VehicleType = "2-wheeler"
	VehicleType3Wheeler VehicleType = "3-wheeler"
	VehicleType4Wheeler VehicleType = "4-wheeler"
)

// ServiceProblem is a known problem covered by a service, with suggested
// solutions and an optional tutorial video link.
type ServiceProblem struct {
	gorm.Model
	ServiceID    uint     `json:"serviceId" gorm:"not null;index"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Solutions    []string `json:"solutions" gorm:"serializer:json"`
	TutorialLink string   `json:"tutorialLink"`
}

type Service struct {
	gorm.Model
	Name          string           `json:"name" gorm:"not null"`
	VehicleType   VehicleType      `json:"vehicleType" gorm:"column:vehicle_type;not null"`
	Description   string           `json:"description" gorm:"not null"`
	Problems      []ServiceProblem `json:"problems" gorm:"constraint:OnDelete:CASCADE"`
	BasePrice     float64          `json:"basePrice" gorm:"column:base_price;not null"`
	EstimatedTime int              `json:"estimatedTime" gorm:"column:estimated_time"` // minutes
	Available247  bool             `json:"available24_7" gorm:"column:available_24_7;default:true"`
	OperatingFrom string           `json:"operatingFrom" gorm:"column:operating_from"`
	OperatingTo   string           `json:"operatingTo" gorm:"column:operating_to"`
	IsActive      bool             `json:"isActive" gorm:"column:is_active;default:true"`
}

// TableName specifies the table name
func (Service) TableName() string {
	return "services"
}
