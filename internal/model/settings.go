package model

import "gorm.io/datatypes"

// Settings 平台全局设置（单行）
type Settings struct {
	BaseModel
	CommissionPercent float64 `json:"commissionPercent"`
	TaxPercent        float64 `json:"taxPercent"`
	Currency          string  `gorm:"size:3" json:"currency"`
	SupportEmail      string  `gorm:"size:255" json:"supportEmail"`
	SupportPhone      string  `gorm:"size:32" json:"supportPhone"`
	MaintenanceMode   bool    `json:"maintenanceMode"`
}

func (Settings) TableName() string { return "settings" }

// Banner 首页横幅
type Banner struct {
	Image string `json:"image"`
	Link  string `json:"link"`
	Title string `json:"title"`
}

// HomePage 首页配置（单行）
type HomePage struct {
	BaseModel
	Banners             datatypes.JSONSlice[Banner] `json:"banners"`
	FeaturedProductIDs  datatypes.JSONSlice[int64]  `json:"featuredProductIds"`
	FeaturedCategoryIDs datatypes.JSONSlice[int64]  `json:"featuredCategoryIds"`
}

func (HomePage) TableName() string { return "home_pages" }
