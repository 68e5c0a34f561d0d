package domain

import "time"

type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemPending   ItemStatus = "pending"
	ItemReserved  ItemStatus = "reserved"
	ItemSold      ItemStatus = "sold"
)

type Item struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	UploadedBy  string     `gorm:"index" json:"uploaded_by"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	Category    string     `gorm:"index" json:"category"`
	ImageURL    string     `json:"image_url"`
	Status      ItemStatus `gorm:"index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ItemFilter narrows the public marketplace listing. MaxPrice <= 0
// means no ceiling; Category "all" (or empty) means every category.
type ItemFilter struct {
	Category string
	Search   string
	MaxPrice int64
}
