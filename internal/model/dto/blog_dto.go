package dto

import "time"

// BlogPostItem 列表项（公共端不含全文）。
type BlogPostItem struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	CoverImage      string     `json:"cover_image,omitempty"`
	Tags            []string   `json:"tags"`
	CategoryName    string     `json:"category_name,omitempty"`
	ReadTimeMinutes int        `json:"read_time_minutes"`
	Published       bool       `json:"published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	AuthorName      string     `json:"author_name,omitempty"`
}

// BlogPostDetail 详情含全文。
type BlogPostDetail struct {
	BlogPostItem
	Content string `json:"content"`
}

// CreateBlogPostRequest 管理端新建/更新。
type CreateBlogPostRequest struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
	CategoryID *int64   `json:"category_id"`
	AuthorName string   `json:"author_name"`
	Published  bool     `json:"published"`
}

type UpdateBlogPostRequest = CreateBlogPostRequest

// PublishBlogPostRequest 发布/撤稿开关。
type PublishBlogPostRequest struct {
	Published bool `json:"published"`
}

type BlogCategoryItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CreateBlogCategoryRequest struct {
	Name string `json:"name"`
}

// BlogListQuery 分页参数。
type BlogListQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
}
