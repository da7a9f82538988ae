package service

import "time"

// ProfileService 将用户、其帖子分页与帖子总数组合为一个只读视图。
type ProfileService struct {
	users *UserService
	posts *PostService
}

func NewProfileService(users *UserService, posts *PostService) *ProfileService {
	return &ProfileService{users: users, posts: posts}
}

type Profile struct {
	Username   string    `json:"username"`
	Joined     time.Time `json:"joined"`
	HasAvatar  bool      `json:"has_avatar"`
	Posts      []PostDTO `json:"posts"`
	TotalPosts int64     `json:"total_posts"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Profile 用户不存在时返回 ErrUserNotFound；没有帖子时返回空列表与 0。
func (s *ProfileService) Profile(username string, p Page) (*Profile, error) {
	if _, err := NewPage(p.Number, p.Size); err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(username)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(user.Username, p)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountByUser(user.Username)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Username:   user.Username,
		Joined:     user.JoinedDate,
		HasAvatar:  len(user.Avatar) > 0,
		Posts:      posts,
		TotalPosts: total,
		Page:       p.Number,
		PageSize:   p.Size,
		TotalPages: p.TotalPages(total),
	}, nil
}
