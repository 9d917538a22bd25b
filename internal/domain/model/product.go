package model

import "time"

// 商品(在庫の1行)。Photo空 = 写真なし
type Product struct {
	Code      string    `gorm:"primaryKey;type:varchar(64)" json:"code"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	Stock     int64     `gorm:"not null" json:"stock"`
	Category  string    `gorm:"type:varchar(100);not null;index" json:"category"`
	Photo     string    `gorm:"type:text" json:"photo"`
	PhotoID   string    `gorm:"type:varchar(255)" json:"-"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (p Product) HasPhoto() bool {
	return p.Photo != ""
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
