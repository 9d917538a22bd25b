package model

import "time"

type AuditAction string

const (
	AuditActionCreateProduct AuditAction = "CREATE_PRODUCT"
	AuditActionUpdateProduct AuditAction = "UPDATE_PRODUCT"
	AuditActionDeleteProduct AuditAction = "DELETE_PRODUCT"
	// stock decremented by a checkout
	AuditActionSaleStock AuditAction = "SALE_STOCK"
)

// 監査ログ（商品・在庫の変更履歴）。
type AuditLog struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID    string      `gorm:"type:varchar(64);not null;index" json:"session_id"`
	Action       AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceCode string      `gorm:"type:varchar(64);not null;index" json:"resource_code"`
	BeforeJSON   string      `gorm:"type:text" json:"before_json"`
	AfterJSON    string      `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"created_at"`
}
