package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/email"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
	"github.com/yigit/learnhub/internal/pkg/session"
)

func requireAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.StatusCode)
	assert.Equal(t, message, appErr.Message)
}

// clone copies v through JSON, like a round trip to the database would
func clone[T any](t *T) *T {
	raw, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

type testRedis struct {
	mr       *miniredis.Miniredis
	sessions *session.Store
	cache    *session.CourseCache
}

func newTestRedis(t *testing.T) *testRedis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &testRedis{
		mr:       mr,
		sessions: session.NewStore(client, 7*24*time.Hour),
		cache:    session.NewCourseCache(client, 7*24*time.Hour),
	}
}

var (
	_ repositories.IUserRepository         = (*fakeUserRepo)(nil)
	_ repositories.ICourseRepository       = (*fakeCourseRepo)(nil)
	_ repositories.IOrderRepository        = (*fakeOrderRepo)(nil)
	_ repositories.INotificationRepository = (*fakeNotificationRepo)(nil)
	_ repositories.ILayoutRepository       = (*fakeLayoutRepo)(nil)
	_ filestorage.ImageStore               = (*fakeImages)(nil)
)

// users

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

// stored keeps the password, which JSON cloning would drop
func (r *fakeUserRepo) copyOf(u *models.User) *models.User {
	c := clone(u)
	c.Password = u.Password
	return c
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Courses == nil {
		user.Courses = []models.EnrolledCourse{}
	}
	r.users[user.ID] = r.copyOf(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return r.copyOf(u), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return r.copyOf(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.Name, stored.Email, stored.Avatar, stored.Role = user.Name, user.Email, user.Avatar, user.Role
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored.Password = hash
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[userID]
	if !ok || stored.IsVerified {
		return false, nil
	}
	stored.IsVerified = true
	return true, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListAll(context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, r.copyOf(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) CountCreatedBetween(_ context.Context, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if !u.CreatedAt.Before(start) && u.CreatedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) enroll(userID, courseID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	if u.IsEnrolled(courseID) {
		return false
	}
	u.Courses = append(u.Courses, models.EnrolledCourse{CourseID: courseID})
	return true
}

// courses

type fakeCourseRepo struct {
	mu      sync.Mutex
	nextID  int64
	courses map[int64]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[int64]*models.Course{}}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	course.ID = r.nextID
	course.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	course.UpdatedAt = course.CreatedAt
	r.courses[course.ID] = clone(course)
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return clone(c), nil
}

func (r *fakeCourseRepo) ListAll(context.Context) ([]*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Mutate holds the lock for the whole callback, like the row lock of the real repository
func (r *fakeCourseRepo) Mutate(_ context.Context, id int64, fn repositories.CourseMutation) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	working := clone(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	r.courses[id] = clone(working)
	return working, nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) CountCreatedBetween(context.Context, time.Time, time.Time) (int64, error) {
	return int64(len(r.courses)), nil
}

// orders

type fakeOrderRepo struct {
	mu      sync.Mutex
	users   *fakeUserRepo
	courses *fakeCourseRepo
	orders  []*models.Order
}

func (r *fakeOrderRepo) CreateWithEnrollment(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.users.enroll(order.UserID, order.CourseID) {
		return apperrors.ErrAlreadyEnrolled
	}
	r.courses.mu.Lock()
	r.courses.courses[order.CourseID].Purchased++
	r.courses.mu.Unlock()

	order.ID = int64(len(r.orders) + 1)
	order.CreatedAt = time.Now()
	r.orders = append(r.orders, order)
	return nil
}

func (r *fakeOrderRepo) ListAll(context.Context) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Order, len(r.orders))
	for i, o := range r.orders {
		out[len(r.orders)-1-i] = o
	}
	return out, nil
}

func (r *fakeOrderRepo) CountCreatedBetween(context.Context, time.Time, time.Time) (int64, error) {
	return int64(len(r.orders)), nil
}

// notifications

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []*models.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = int64(len(r.items) + 1)
	n.CreatedAt = time.Now()
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotificationRepo) ListAll(context.Context) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Notification, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id {
			n.Status = models.NotificationRead
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) DeleteRead(ctx context.Context) (int64, error) {
	return r.DeleteReadOlderThan(ctx, time.Now().Add(time.Hour))
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	var deleted int64
	for _, n := range r.items {
		if n.Status == models.NotificationRead && n.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	return deleted, nil
}

func (r *fakeNotificationRepo) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Title)
	}
	return out
}

// layouts

type fakeLayoutRepo struct {
	mu      sync.Mutex
	layouts map[models.LayoutType]*models.Layout
}

func newFakeLayoutRepo() *fakeLayoutRepo {
	return &fakeLayoutRepo{layouts: map[models.LayoutType]*models.Layout{}}
}

func (r *fakeLayoutRepo) Create(_ context.Context, l *models.Layout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.layouts[l.Type]; ok {
		return apperrors.ErrLayoutExists
	}
	l.ID = int64(len(r.layouts) + 1)
	r.layouts[l.Type] = clone(l)
	return nil
}

func (r *fakeLayoutRepo) GetByType(_ context.Context, t models.LayoutType) (*models.Layout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.layouts[t]
	if !ok {
		return nil, apperrors.ErrLayoutNotFound
	}
	return clone(l), nil
}

func (r *fakeLayoutRepo) Update(_ context.Context, l *models.Layout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.layouts[l.Type]; !ok {
		return apperrors.ErrLayoutNotFound
	}
	r.layouts[l.Type] = clone(l)
	return nil
}

// side effects

type sentMail struct {
	to       string
	name     string
	code     string
	template string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

var _ email.EmailService = (*fakeMailer)(nil)

func (m *fakeMailer) record(mail sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) SendActivationEmail(_ context.Context, to, name, code string) error {
	return m.record(sentMail{to: to, name: name, code: code, template: email.TemplateActivation})
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, to string, data email.OrderMailData) error {
	return m.record(sentMail{to: to, name: data.User.Name, template: email.TemplateOrderConfirmation})
}

func (m *fakeMailer) SendQuestionReply(_ context.Context, to, name, _ string) error {
	return m.record(sentMail{to: to, name: name, template: email.TemplateQuestionReply})
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type fakeImages struct {
	mu        sync.Mutex
	uploaded  int
	destroyed []string
}

func (f *fakeImages) Upload(_ context.Context, data, folder string) (*models.Image, error) {
	if data == "bad" {
		return nil, filestorage.ErrInvalidImage
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded++
	id := fmt.Sprintf("%s/img-%d", folder, f.uploaded)
	return &models.Image{PublicID: id, URL: "http://cdn/" + id}, nil
}

func (f *fakeImages) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	return nil
}
