package types

import "time"

// Item is a single to-do entry. JSON field names match the public HTTP contract.
type Item struct {
	ID         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title      string    `json:"title"`
	IsComplete bool      `json:"isComplete"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
}

// TableName pins the relational table name.
func (Item) TableName() string { return "todos" }

// NewItem returns an Item stamped with the current UTC time. Request bodies are
// decoded into a NewItem so an omitted createdAt takes the construction time.
func NewItem() Item {
	return Item{CreatedAt: time.Now().UTC()}
}
