package service

import (
	"errors"
	"strings"
	"time"

	"blogs/internal/apperr"
	"blogs/internal/auth"
	"blogs/internal/metrics"
	"blogs/internal/models"

	"gorm.io/gorm"
)

// PostService 封装帖子的分页查询、创建与删除。
type PostService struct {
	db       *gorm.DB
	feedSize int
	now      func() time.Time
}

func NewPostService(db *gorm.DB, feedSize int) *PostService {
	return &PostService{db: db, feedSize: feedSize, now: time.Now}
}

// PostDTO 是对外输出的帖子数据，图片只以 has_image 标记。
type PostDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	HasImage  bool      `json:"has_image"`
}

// CreatePostInput 由传输层从 multipart 表单中提取。
type CreatePostInput struct {
	Title string
	Body  string
	Image []byte
}

const postColumns = "id, title, body, created_at, username, (image IS NOT NULL) AS has_image"

// ordered 按创建时间倒序，id 倒序保证同一时间戳下的稳定顺序。
func (s *PostService) ordered() *gorm.DB {
	return s.db.Model(&models.Post{}).Select(postColumns).Order("created_at desc").Order("id desc")
}

// FeedSize 返回全站列表的固定页大小。
func (s *PostService) FeedSize() int { return s.feedSize }

// ListGlobal 返回全站帖子的第 page 页。
func (s *PostService) ListGlobal(page int) ([]PostDTO, error) {
	p, err := NewPage(page, s.feedSize)
	if err != nil {
		return nil, err
	}
	return s.list(s.ordered(), p)
}

// ListByUser 按所有者过滤并分页，Size 为 Unbounded 时返回全部。
func (s *PostService) ListByUser(username string, p Page) ([]PostDTO, error) {
	if _, err := NewPage(p.Number, p.Size); err != nil {
		return nil, err
	}
	return s.list(s.ordered().Where("username = ?", username), p)
}

func (s *PostService) list(q *gorm.DB, p Page) ([]PostDTO, error) {
	out := make([]PostDTO, 0)
	if p.Beyond() {
		return out, nil
	}
	if err := q.Offset(p.Offset()).Limit(p.Limit()).Scan(&out).Error; err != nil {
		return nil, apperr.Storage("list posts", err)
	}
	return out, nil
}

// CountByUser 返回某用户的帖子总数。
func (s *PostService) CountByUser(username string) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Post{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return 0, apperr.Storage("count posts", err)
	}
	return n, nil
}

// Get 查询单个帖子。
func (s *PostService) Get(id uint) (*PostDTO, error) {
	var out []PostDTO
	if err := s.ordered().Where("id = ?", id).Limit(1).Scan(&out).Error; err != nil {
		return nil, apperr.Storage("query post", err)
	}
	if len(out) == 0 {
		return nil, ErrPostNotFound
	}
	return &out[0], nil
}

// Image 返回帖子图片；帖子不存在或没有图片时返回未找到而不是空内容。
func (s *PostService) Image(id uint) ([]byte, error) {
	var posts []models.Post
	if err := s.db.Select("id", "image").Where("id = ?", id).Limit(1).Find(&posts).Error; err != nil {
		return nil, apperr.Storage("query post image", err)
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	if len(posts[0].Image) == 0 {
		return nil, ErrImageNotFound
	}
	return posts[0].Image, nil
}

// Create 以当前用户为所有者创建帖子，创建时间由服务端决定。
func (s *PostService) Create(owner *models.User, in CreatePostInput) (*PostDTO, error) {
	if owner == nil {
		return nil, apperr.Unauthenticated("not logged in")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, apperr.Validation("body is required")
	}
	post := models.Post{
		Title:     title,
		Body:      in.Body,
		CreatedAt: s.now(),
		Username:  owner.Username,
	}
	if len(in.Image) > 0 {
		post.Image = in.Image
	}
	if err := s.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Storage("create post", err)
	}
	metrics.PostsCreatedTotal.Inc()
	return &PostDTO{
		ID:        post.ID,
		Title:     post.Title,
		Body:      post.Body,
		CreatedAt: post.CreatedAt,
		Username:  post.Username,
		HasImage:  post.Image != nil,
	}, nil
}

// Delete 只有帖子所有者可以删除。
func (s *PostService) Delete(user *models.User, id uint) error {
	var posts []models.Post
	if err := s.db.Select("id", "username").Where("id = ?", id).Limit(1).Find(&posts).Error; err != nil {
		return apperr.Storage("query post", err)
	}
	if len(posts) == 0 {
		return ErrPostNotFound
	}
	if err := auth.AuthorizeOwnership(user, posts[0].Username); err != nil {
		return err
	}
	res := s.db.Where("id = ? AND username = ?", id, user.Username).Delete(&models.Post{})
	if res.Error != nil {
		return apperr.Storage("delete post", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	metrics.PostsDeletedTotal.Inc()
	return nil
}
