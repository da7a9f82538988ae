package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogs/internal/apperr"
	"blogs/internal/auth"
	"blogs/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	users           *service.UserService
	posts           *service.PostService
	profiles        *service.ProfileService
	gate            *auth.Gate
	profilePageSize int
	cookieSecure    bool
	maxUpload       int64
}

type HandlerOptions struct {
	ProfilePageSize int
	CookieSecure    bool
	MaxUploadBytes  int64
}

func NewHandler(users *service.UserService, posts *service.PostService, profiles *service.ProfileService, gate *auth.Gate, opts HandlerOptions) *Handler {
	return &Handler{
		users:           users,
		posts:           posts,
		profiles:        profiles,
		gate:            gate,
		profilePageSize: opts.ProfilePageSize,
		cookieSecure:    opts.CookieSecure,
		maxUpload:       opts.MaxUploadBytes,
	}
}

// fail 统一输出 {error, message}，存储类错误只记录日志不回显细节。
func fail(c *gin.Context, op string, err error) {
	kind := apperr.KindOf(err)
	if kind.Status() >= http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(kind.Status(), gin.H{"error": kind.String(), "message": apperr.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	fail(c, "", apperr.Validation(msg))
}

// pageParam 缺省为第 1 页，非数字或小于 1 视为非法输入。
func pageParam(c *gin.Context) (int, bool) {
	raw := c.Query("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) setSessionCookie(c *gin.Context, sid string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.gate.CookieName(), sid, int((30 * 24 * time.Hour).Seconds()), "/", "", h.cookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.gate.CookieName(), "", -1, "/", "", h.cookieSecure, true)
}

// readUpload 读取 multipart 中的文件字段，字段缺失时返回 nil。
func (h *Handler) readUpload(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.Validation("invalid multipart form")
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return nil, apperr.Validation(field + " is too large")
	}
	return readFile(fh)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Validation("invalid upload")
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Validation("invalid upload")
	}
	return b, nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func bindCredentials(c *gin.Context) (credentials, bool) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return req, false
	}
	return req, true
}

// Signup 处理用户注册请求。
func (h *Handler) Signup(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		badRequest(c, "username and password are required")
		return
	}
	user, err := h.users.CreateUser(req.Username, req.Password)
	if err != nil {
		fail(c, "signup", err)
		return
	}
	log.Info().Str("username", user.Username).Msg("user signed up")
	c.JSON(http.StatusCreated, gin.H{"username": user.Username, "joined": user.JoinedDate})
}

// Login 校验凭据并通过 cookie 下发会话标识。
func (h *Handler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		badRequest(c, "username and password are required")
		return
	}
	result, err := h.users.Login(req.Username, req.Password)
	if err != nil {
		fail(c, "login", err)
		return
	}
	h.setSessionCookie(c, result.SessionID)
	c.JSON(http.StatusOK, gin.H{"username": result.User.Username, "joined": result.User.JoinedDate})
}

// Logout 吊销当前会话并清除 cookie。
func (h *Handler) Logout(c *gin.Context) {
	if err := h.users.Logout(auth.SessionID(c)); err != nil {
		fail(c, "logout", err)
		return
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// Me 返回当前登录用户。
func (h *Handler) Me(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"username": user.Username, "joined": user.JoinedDate})
}

// ListPosts 返回全站帖子分页，每页大小固定。
func (h *Handler) ListPosts(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		badRequest(c, "page must be a positive integer")
		return
	}
	posts, err := h.posts.ListGlobal(page)
	if err != nil {
		fail(c, "list posts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "page": page, "page_size": h.posts.FeedSize()})
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		badRequest(c, "invalid post id")
		return
	}
	post, err := h.posts.Get(id)
	if err != nil {
		fail(c, "get post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetPostImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		badRequest(c, "invalid post id")
		return
	}
	img, err := h.posts.Image(id)
	if err != nil {
		fail(c, "get post image", err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// CreatePost 从 multipart 表单读取 title、body 与可选的 image。
func (h *Handler) CreatePost(c *gin.Context) {
	image, err := h.readUpload(c, "image")
	if err != nil {
		fail(c, "create post", err)
		return
	}
	post, err := h.posts.Create(auth.CurrentUser(c), service.CreatePostInput{
		Title: c.PostForm("title"),
		Body:  c.PostForm("body"),
		Image: image,
	})
	if err != nil {
		fail(c, "create post", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		badRequest(c, "invalid post id")
		return
	}
	if err := h.posts.Delete(auth.CurrentUser(c), id); err != nil {
		fail(c, "delete post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

// GetProfile 返回用户信息、帖子分页与帖子总数；page_size=all 表示不分页。
func (h *Handler) GetProfile(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		badRequest(c, "page must be a positive integer")
		return
	}
	size := h.profilePageSize
	if raw := c.Query("page_size"); raw != "" {
		if raw == "all" {
			size = service.Unbounded
		} else {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				badRequest(c, "page_size must be a positive integer or 'all'")
				return
			}
			size = n
		}
	}
	profile, err := h.profiles.Profile(c.Param("username"), service.Page{Number: page, Size: size})
	if err != nil {
		fail(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateAvatar 只允许用户修改自己的头像。
func (h *Handler) UpdateAvatar(c *gin.Context) {
	user := auth.CurrentUser(c)
	if err := auth.AuthorizeOwnership(user, c.Param("username")); err != nil {
		fail(c, "update avatar", err)
		return
	}
	avatar, err := h.readUpload(c, "avatar")
	if err != nil {
		fail(c, "update avatar", err)
		return
	}
	if err := h.users.UpdateAvatar(user.Username, avatar); err != nil {
		fail(c, "update avatar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) GetAvatar(c *gin.Context) {
	avatar, err := h.users.Avatar(c.Param("username"))
	if err != nil {
		fail(c, "get avatar", err)
		return
	}
	c.Data(http.StatusOK, "image/png", avatar)
}
