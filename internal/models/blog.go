package models

import "time"

// Tag labels blog posts. Names are treated as labels and are not unique
// at the data layer.
type Tag struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}

// Category groups blog posts into a tree via the optional parent pointer.
// Cycles are not prevented by the schema; callers must not create them.
type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	ParentID  *int64    `json:"parent_id"`
	Parent    *Category `json:"-" gorm:"foreignKey:ParentID"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// Post is an authored blog entry. Posts cascade-delete with their author;
// removing a category leaves its posts uncategorized.
type Post struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Slug       string    `json:"slug"`
	AuthorID   int64     `json:"author" gorm:"index;not null"`
	Author     User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CategoryID *int64    `json:"category"`
	Category   *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Tags       []Tag     `json:"tags" gorm:"many2many:post_tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Post model.
func (Post) TableName() string {
	return "posts"
}
