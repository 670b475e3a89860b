package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"yatube/cache"
	"yatube/config"
	"yatube/db"
	"yatube/models"
	"yatube/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const password = "secret-password"

type server struct {
	t      *testing.T
	ctx    context.Context
	router *gin.Engine
	cache  *cache.MemoryStore
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	models.PasswordCost = bcrypt.MinCost
	config.LOGIN_RATE_PER_MINUTE = 0
	config.INDEX_CACHE_SECONDS = 20
	config.POSTS_PER_PAGE = 10
	config.THUMB_SIZE = 32
	db.OpenSQLite(":memory:")
	require.NoError(t, models.Init())
	storage.Default = storage.NewDiskStorage(&storage.Bucket{Path: t.TempDir()})

	router := gin.New()
	router.Use(sessions.Sessions("sessionid", cookie.NewStore([]byte("test secret"))))
	store := cache.NewMemoryStore()
	Setup(router, store)
	return &server{t: t, ctx: context.Background(), router: router, cache: store}
}

func (s *server) user(username string) models.User {
	s.t.Helper()
	u, err := models.UserCreate(s.ctx, username, "", "", "", password)
	require.NoError(s.t, err)
	return u
}

func (s *server) group(title, slug string) models.Group {
	s.t.Helper()
	g := models.Group{Title: title, Slug: slug, Description: "Тестовое описание"}
	require.NoError(s.t, models.GroupCreate(s.ctx, &g))
	return g
}

func (s *server) post(author models.User, group *models.Group, text string) models.Post {
	s.t.Helper()
	p := models.Post{AuthorID: author.ID, Text: text}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(s.t, models.CreatePost(s.ctx, &p))
	return p
}

func (s *server) postCount() int64 {
	s.t.Helper()
	count, err := models.PostCount(s.ctx)
	require.NoError(s.t, err)
	return count
}

// client keeps the session cookie between requests
type client struct {
	s       *server
	cookies map[string]*http.Cookie
}

func (s *server) anonymous() *client {
	return &client{s: s, cookies: map[string]*http.Cookie{}}
}

func (s *server) loggedIn(username string) *client {
	s.t.Helper()
	cl := s.anonymous()
	w := cl.post("/auth/login/", url.Values{"username": {username}, "password": {password}})
	require.Equal(s.t, http.StatusFound, w.Code, w.Body.String())
	return cl
}

func (cl *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(cl.cookies, c.Name)
		} else {
			cl.cookies[c.Name] = c
		}
	}
	return w
}

func (cl *client) get(target string) *httptest.ResponseRecorder {
	return cl.send(httptest.NewRequest(http.MethodGet, target, nil))
}

func (cl *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.send(req)
}

func postPath(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	post := s.post(author, nil, "text")
	anon := s.anonymous()

	tests := []struct {
		method string
		target string
		want   string
	}{
		{http.MethodGet, "/create/", "/auth/login/?next=/create/"},
		{http.MethodPost, "/create/", "/auth/login/?next=/create/"},
		{http.MethodGet, "/follow/", "/auth/login/?next=/follow/"},
		{http.MethodGet, "/follow/?page=2", "/auth/login/?next=/follow/%3Fpage%3D2"},
		{http.MethodGet, postPath(post.ID) + "edit/", "/auth/login/?next=" + postPath(post.ID) + "edit/"},
		{http.MethodPost, postPath(post.ID) + "comment/", "/auth/login/?next=" + postPath(post.ID) + "comment/"},
		{http.MethodGet, "/profile/TestAuthor/follow/", "/auth/login/?next=/profile/TestAuthor/follow/"},
		{http.MethodGet, "/profile/TestAuthor/unfollow/", "/auth/login/?next=/profile/TestAuthor/unfollow/"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if tt.method == http.MethodPost {
				w = anon.post(tt.target, url.Values{"text": {"sneaky"}})
			} else {
				w = anon.get(tt.target)
			}
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
	assert.EqualValues(t, 1, s.postCount())
}

func TestPublicPages(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	group := s.group("Тестовая группа", "test-slug")
	post := s.post(author, &group, "Тестовый пост")
	anon := s.anonymous()

	tests := []struct {
		target string
		status int
	}{
		{"/", http.StatusOK},
		{"/group/test-slug/", http.StatusOK},
		{"/group/missing/", http.StatusNotFound},
		{"/profile/TestAuthor/", http.StatusOK},
		{"/profile/nobody/", http.StatusNotFound},
		{postPath(post.ID), http.StatusOK},
		{"/posts/12345/", http.StatusNotFound},
		{"/posts/abc/", http.StatusNotFound},
		{"/unexisting_page/", http.StatusNotFound},
		{"/auth/login/", http.StatusOK},
		{"/auth/signup/", http.StatusOK},
		{"/robots.txt", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := anon.get(tt.target)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNotFound {
				assert.Contains(t, w.Body.String(), "Page not found")
			}
		})
	}

	body := anon.get(postPath(post.ID)).Body.String()
	assert.Contains(t, body, "Тестовый пост")
	assert.Contains(t, body, `href="/group/test-slug/"`)
	assert.NotContains(t, body, "/edit/", "only the author sees the edit link")
	assert.NotContains(t, body, `action="`+postPath(post.ID)+`comment/"`, "anonymous visitors get no comment form")
}

func TestPagination(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	group := s.group("Тестовая группа", "test-slug")
	for i := 0; i < 13; i++ {
		s.post(author, &group, "post "+strconv.Itoa(i))
	}
	anon := s.anonymous()
	for _, target := range []string{"/", "/group/test-slug/", "/profile/TestAuthor/"} {
		first := anon.get(target).Body.String()
		assert.Equal(t, 10, strings.Count(first, "<article>"), target)
		assert.Contains(t, first, "post 12")
		second := anon.get(target + "?page=2").Body.String()
		assert.Equal(t, 3, strings.Count(second, "<article>"), target)
		assert.Contains(t, second, "post 0<")
	}
	// out of range pages show the last one
	assert.Equal(t, 3, strings.Count(anon.get("/?page=99").Body.String(), "<article>"))
	assert.Equal(t, 10, strings.Count(anon.get("/?page=first").Body.String(), "<article>"))
}

func TestCreatePost(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	group := s.group("Тестовая группа", "test-slug")
	cl := s.loggedIn("TestAuthor")

	w := cl.get("/create/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="`+strconv.FormatUint(group.ID, 10)+`"`)

	before := s.postCount()
	w = cl.post("/create/", url.Values{"text": {"Новый пост"}, "group": {strconv.FormatUint(group.ID, 10)}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/TestAuthor/", w.Header().Get("Location"))
	assert.Equal(t, before+1, s.postCount())

	var latest models.Post
	require.NoError(t, db.Instance.Order("id DESC").First(&latest).Error)
	assert.Equal(t, "Новый пост", latest.Text)
	assert.Equal(t, author.ID, latest.AuthorID)
	require.NotNil(t, latest.GroupID)
	assert.Equal(t, group.ID, *latest.GroupID)
}

func TestCreatePostValidation(t *testing.T) {
	s := newServer(t)
	s.user("TestAuthor")
	cl := s.loggedIn("TestAuthor")

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"missing text", url.Values{"text": {""}}, "This field is required."},
		{"blank text", url.Values{"text": {"   "}}, "This field is required."},
		{"unknown group", url.Values{"text": {"kept input"}, "group": {"999"}}, "Select a valid choice."},
		{"garbage group", url.Values{"text": {"kept input"}, "group": {"abc"}}, "Select a valid choice."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := cl.post("/create/", tt.form)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			if text := tt.form.Get("text"); strings.TrimSpace(text) != "" {
				assert.Contains(t, w.Body.String(), text)
			}
		})
	}
	assert.Zero(t, s.postCount())
}

func pngBody(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))
	return buf.Bytes()
}

func multipartPost(t *testing.T, cl *client, target string, fields map[string]string, fileName string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("image", fileName)
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader(file))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.send(req)
}

func TestCreatePostWithImage(t *testing.T) {
	s := newServer(t)
	s.user("TestAuthor")
	cl := s.loggedIn("TestAuthor")

	w := multipartPost(t, cl, "/create/", map[string]string{"text": "with a picture"}, "small.png", pngBody(t))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	var latest models.Post
	require.NoError(t, db.Instance.Order("id DESC").First(&latest).Error)
	require.NotEmpty(t, latest.Image)
	require.NotEmpty(t, latest.Thumb)

	media := cl.get("/media/" + latest.Image)
	assert.Equal(t, http.StatusOK, media.Code)
	assert.Equal(t, "public, max-age=604800", media.Header().Get("Cache-Control"))
	assert.Contains(t, cl.get("/").Body.String(), `src="/media/`+latest.Thumb+`"`)

	w = multipartPost(t, cl, "/create/", map[string]string{"text": "not a picture"}, "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Upload a valid image")
	assert.EqualValues(t, 1, s.postCount())
}

func TestEditPost(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	s.user("Stranger")
	group := s.group("Тестовая группа", "test-slug")
	post := s.post(author, &group, "original text")
	edit := postPath(post.ID) + "edit/"

	t.Run("non-owner is sent to the post and nothing changes", func(t *testing.T) {
		stranger := s.loggedIn("Stranger")
		for _, w := range []*httptest.ResponseRecorder{
			stranger.get(edit),
			stranger.post(edit, url.Values{"text": {"hijacked"}}),
		} {
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, postPath(post.ID), w.Header().Get("Location"))
		}
		stored, err := models.PostByID(s.ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "original text", stored.Text)
		assert.Equal(t, author.ID, stored.AuthorID)
		require.NotNil(t, stored.GroupID)
		assert.Equal(t, group.ID, *stored.GroupID)
	})

	t.Run("owner edits", func(t *testing.T) {
		owner := s.loggedIn("TestAuthor")
		w := owner.get(edit)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "original text")
		assert.Contains(t, w.Body.String(), `" selected>Тестовая группа`)

		w = owner.post(edit, url.Values{"text": {""}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "This field is required.")

		w = owner.post(edit, url.Values{"text": {"edited text"}, "group": {""}})
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, postPath(post.ID), w.Header().Get("Location"))
		stored, err := models.PostByID(s.ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited text", stored.Text)
		assert.Nil(t, stored.GroupID)
		assert.True(t, post.CreatedAt.Equal(stored.CreatedAt))

		assert.Contains(t, owner.get(postPath(post.ID)).Body.String(), edit)
	})
}

func TestAddComment(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	s.user("Reader")
	post := s.post(author, nil, "text")
	reader := s.loggedIn("Reader")

	w := reader.post(postPath(post.ID)+"comment/", url.Values{"text": {"Тестовый комментарий"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postPath(post.ID), w.Header().Get("Location"))

	w = reader.post(postPath(post.ID)+"comment/", url.Values{"text": {"  "}})
	assert.Equal(t, http.StatusFound, w.Code)

	comments, err := models.PostComments(s.ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Тестовый комментарий", comments[0].Text)
	assert.Equal(t, "Reader", comments[0].Author.Username)

	body := s.anonymous().get(postPath(post.ID)).Body.String()
	assert.Contains(t, body, "Тестовый комментарий")

	assert.Equal(t, http.StatusNotFound, reader.post("/posts/999/comment/", url.Values{"text": {"x"}}).Code)
}

func countFollows(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Instance.Model(&models.Follow{}).Count(&count).Error)
	return count
}

func TestFollowAndUnfollow(t *testing.T) {
	s := newServer(t)
	s.user("Fan")
	s.user("TestAuthor")
	fan := s.loggedIn("Fan")

	for i := 0; i < 2; i++ {
		w := fan.get("/profile/TestAuthor/follow/")
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/TestAuthor/", w.Header().Get("Location"))
	}
	assert.EqualValues(t, 1, countFollows(t), "following twice leaves one edge")
	assert.Contains(t, fan.get("/profile/TestAuthor/").Body.String(), "/profile/TestAuthor/unfollow/")

	// self follow is ignored
	w := fan.get("/profile/Fan/follow/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.EqualValues(t, 1, countFollows(t))

	for i := 0; i < 2; i++ {
		w = fan.get("/profile/TestAuthor/unfollow/")
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/TestAuthor/", w.Header().Get("Location"))
	}
	assert.Zero(t, countFollows(t), "unfollowing a missing edge is a no-op")
	assert.Contains(t, fan.get("/profile/TestAuthor/").Body.String(), "/profile/TestAuthor/follow/")

	assert.Equal(t, http.StatusNotFound, fan.get("/profile/nobody/follow/").Code)
}

func TestFollowFeed(t *testing.T) {
	s := newServer(t)
	s.user("Fan")
	author := s.user("TestAuthor")
	stranger := s.user("Stranger")
	s.post(author, nil, "followed post")
	s.post(stranger, nil, "stranger post")
	fan := s.loggedIn("Fan")

	body := fan.get("/follow/").Body.String()
	assert.NotContains(t, body, "followed post")

	require.Equal(t, http.StatusFound, fan.get("/profile/TestAuthor/follow/").Code)
	body = fan.get("/follow/").Body.String()
	assert.Contains(t, body, "followed post")
	assert.NotContains(t, body, "stranger post")

	other := s.loggedIn("Stranger")
	assert.NotContains(t, other.get("/follow/").Body.String(), "followed post")
}

func TestGroupIsolation(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	group := s.group("Тестовая группа", "test-slug")
	s.group("Другая группа", "another-test-slug")
	s.post(author, &group, "Тестовый пост")
	anon := s.anonymous()

	body := anon.get("/group/test-slug/").Body.String()
	assert.Equal(t, 1, strings.Count(body, "<article>"))
	assert.Contains(t, body, "Тестовый пост")

	body = anon.get("/group/another-test-slug/").Body.String()
	assert.Zero(t, strings.Count(body, "<article>"))
	assert.NotContains(t, body, "Тестовый пост")
}

func TestIndexCache(t *testing.T) {
	s := newServer(t)
	author := s.user("TestAuthor")
	post := s.post(author, nil, "soon to be deleted")
	anon := s.anonymous()

	first := anon.get("/")
	require.Equal(t, http.StatusOK, first.Code)
	require.Contains(t, first.Body.String(), "soon to be deleted")

	require.NoError(t, db.Instance.Delete(&models.Post{}, post.ID).Error)
	second := anon.get("/")
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes(), "cached page survives the deletion")

	require.NoError(t, s.cache.Clear(s.ctx))
	third := anon.get("/")
	assert.NotContains(t, third.Body.String(), "soon to be deleted")
}

func TestIndexCacheIsPerViewer(t *testing.T) {
	s := newServer(t)
	s.user("TestAuthor")
	anon := s.anonymous()
	assert.Contains(t, anon.get("/").Body.String(), `href="/auth/login/"`)

	cl := s.loggedIn("TestAuthor")
	body := cl.get("/").Body.String()
	assert.Contains(t, body, `href="/auth/logout/"`)
	assert.NotContains(t, body, `href="/auth/login/"`)
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t)
	admin := s.user("admin")
	require.NoError(t, models.GrantPermission(s.ctx, admin.ID, models.PermissionAdmin))
	s.user("Regular")
	author := s.user("TestAuthor")
	post := s.post(author, nil, "cached text")

	groupForm := url.Values{"title": {"Тестовая группа"}, "slug": {"test-slug"}, "description": {"d"}}

	anon := s.anonymous()
	w := anon.post("/admin/groups/", groupForm)
	assert.Equal(t, http.StatusFound, w.Code)

	regular := s.loggedIn("Regular")
	w = regular.post("/admin/groups/", groupForm)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"access denied"}`, w.Body.String())
	assert.Equal(t, http.StatusForbidden, regular.post("/admin/cache/clear/", nil).Code)

	cl := s.loggedIn("admin")
	w = cl.post("/admin/groups/", groupForm)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		ID   uint64 `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "test-slug", created.Slug)
	assert.Equal(t, http.StatusOK, anon.get("/group/test-slug/").Code)

	assert.Equal(t, http.StatusBadRequest, cl.post("/admin/groups/", groupForm).Code, "slug is unique")
	assert.Equal(t, http.StatusBadRequest, cl.post("/admin/groups/", url.Values{"title": {"x"}, "slug": {"not a slug"}}).Code)
	assert.Equal(t, http.StatusBadRequest, cl.post("/admin/groups/", url.Values{"slug": {"no-title"}}).Code)

	require.Contains(t, anon.get("/").Body.String(), "cached text")
	require.NoError(t, db.Instance.Delete(&models.Post{}, post.ID).Error)
	require.Contains(t, anon.get("/").Body.String(), "cached text")
	w = cl.post("/admin/cache/clear/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, anon.get("/").Body.String(), "cached text")
}

func TestSignupLoginLogout(t *testing.T) {
	s := newServer(t)
	cl := s.anonymous()

	w := cl.post("/auth/signup/", url.Values{
		"username": {"newbie"}, "email": {"newbie@example.com"},
		"password1": {password}, "password2": {"something else"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "didn&#39;t match")

	w = cl.post("/auth/signup/", url.Values{
		"username": {"newbie"}, "first_name": {"New"}, "last_name": {"Bie"},
		"password1": {password}, "password2": {password},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, cl.get("/follow/").Code, "signing up logs in")

	w = s.anonymous().post("/auth/signup/", url.Values{
		"username": {"newbie"}, "password1": {password}, "password2": {password},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = cl.get("/auth/logout/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusFound, cl.get("/follow/").Code)

	w = cl.post("/auth/login/", url.Values{"username": {"newbie"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password")

	w = cl.post("/auth/login/", url.Values{"username": {"newbie"}, "password": {password}, "next": {"/create/"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/create/", w.Header().Get("Location"))

	w = s.anonymous().post("/auth/login/", url.Values{"username": {"newbie"}, "password": {password}, "next": {"//evil.example.com/"}})
	assert.Equal(t, "/", w.Header().Get("Location"))

	login := s.anonymous().get("/auth/login/?next=/create/")
	assert.Contains(t, login.Body.String(), `name="next" value="/create/"`)
}
