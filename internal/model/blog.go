package model

import (
	"time"

	"gorm.io/datatypes"
)

// BlogCategory 博客分类。
type BlogCategory struct {
	BaseModel
	Name string `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:160;not null;uniqueIndex" json:"slug"`
}

func (BlogCategory) TableName() string {
	return "blog_categories"
}

// BlogPost 博客文章，tags 以 JSON 存储。
type BlogPost struct {
	BaseModel
	Title           string         `gorm:"size:256;not null" json:"title"`
	Slug            string         `gorm:"size:300;not null;uniqueIndex" json:"slug"`
	Excerpt         string         `gorm:"size:512" json:"excerpt"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	CoverImage      string         `gorm:"size:512" json:"cover_image"`
	Tags            datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	CategoryID      *int64         `gorm:"index" json:"category_id"`
	Category        *BlogCategory  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ReadTimeMinutes int            `gorm:"not null;default:1" json:"read_time_minutes"`
	Published       bool           `gorm:"not null;default:false;index" json:"published"`
	PublishedAt     *time.Time     `json:"published_at"`
	AuthorName      string         `gorm:"size:128" json:"author_name"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}
