// Package memory is an in-process implementation of the repository
// interfaces. It mirrors the MySQL schema constraints: unique usernames,
// slugs and follow pairs, comment cascade on post delete, and group_id set
// to NULL on group delete.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Jon-Makkonahi/YATUBE/internal/model"
	"github.com/Jon-Makkonahi/YATUBE/internal/repository/interfaces"
)

type followKey struct {
	userID, authorID int
}

type Store struct {
	mu sync.RWMutex

	users    map[int]*model.User
	groups   map[int]*model.Group
	posts    map[int]*model.Post
	comments map[int]*model.Comment
	follows  map[followKey]*model.Follow

	lastID int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int]*model.User),
		groups:   make(map[int]*model.Group),
		posts:    make(map[int]*model.Post),
		comments: make(map[int]*model.Comment),
		follows:  make(map[followKey]*model.Follow),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for created_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) nextID() int {
	s.lastID++
	return s.lastID
}

func (s *Store) Users() interfaces.UserRepository       { return userRepo{s} }
func (s *Store) Groups() interfaces.GroupRepository     { return groupRepo{s} }
func (s *Store) Posts() interfaces.PostRepository       { return postRepo{s} }
func (s *Store) Comments() interfaces.CommentRepository { return commentRepo{s} }
func (s *Store) Follows() interfaces.FollowRepository   { return followRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return fmt.Errorf("duplicate username %q", user.Username)
		}
	}
	user.ID = r.s.nextID()
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = r.s.now()
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r userRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyUser(r.s.users[id]), nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

type groupRepo struct{ s *Store }

func (r groupRepo) Create(_ context.Context, group *model.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, g := range r.s.groups {
		if g.Slug == group.Slug {
			return fmt.Errorf("duplicate slug %q", group.Slug)
		}
	}
	group.ID = r.s.nextID()
	stored := *group
	r.s.groups[group.ID] = &stored
	return nil
}

func (r groupRepo) FindByID(_ context.Context, id int) (*model.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyGroup(r.s.groups[id]), nil
}

func (r groupRepo) FindBySlug(_ context.Context, slug string) (*model.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, g := range r.s.groups {
		if g.Slug == slug {
			return copyGroup(g), nil
		}
	}
	return nil, nil
}

func (r groupRepo) List(_ context.Context) ([]*model.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	groups := make([]*model.Group, 0, len(r.s.groups))
	for _, g := range r.s.groups {
		groups = append(groups, copyGroup(g))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (r groupRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.groups, id)
	for _, p := range r.s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
		}
	}
	return nil
}

type postRepo struct{ s *Store }

func (r postRepo) Create(_ context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[post.AuthorID]; !ok {
		return fmt.Errorf("author %d does not exist", post.AuthorID)
	}
	if post.GroupID != nil {
		if _, ok := r.s.groups[*post.GroupID]; !ok {
			return fmt.Errorf("group %d does not exist", *post.GroupID)
		}
	}
	post.ID = r.s.nextID()
	post.CreatedAt = r.s.now()
	r.s.posts[post.ID] = stripPost(post)
	return nil
}

func (r postRepo) FindByID(_ context.Context, id int) (*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	return r.s.hydratePost(p), nil
}

func (r postRepo) Update(_ context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %d does not exist", post.ID)
	}
	if post.GroupID != nil {
		if _, ok := r.s.groups[*post.GroupID]; !ok {
			return fmt.Errorf("group %d does not exist", *post.GroupID)
		}
	}
	stored.Text = post.Text
	stored.Image = post.Image
	stored.GroupID = copyIntPtr(post.GroupID)
	return nil
}

func (r postRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r postRepo) Count(_ context.Context, filter interfaces.PostFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.filterPosts(filter)), nil
}

func (r postRepo) List(_ context.Context, filter interfaces.PostFilter, limit, offset int) ([]*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.s.filterPosts(filter)
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return []*model.Post{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	posts := make([]*model.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		posts = append(posts, r.s.hydratePost(p))
	}
	return posts, nil
}

func (s *Store) filterPosts(filter interfaces.PostFilter) []*model.Post {
	var matched []*model.Post
	for _, p := range s.posts {
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.GroupID != nil && (p.GroupID == nil || *p.GroupID != *filter.GroupID) {
			continue
		}
		if filter.FollowerID != nil {
			if _, ok := s.follows[followKey{*filter.FollowerID, p.AuthorID}]; !ok {
				continue
			}
		}
		matched = append(matched, p)
	}
	return matched
}

func (s *Store) hydratePost(p *model.Post) *model.Post {
	post := stripPost(p)
	post.Author = copyUser(s.users[p.AuthorID])
	if p.GroupID != nil {
		post.Group = copyGroup(s.groups[*p.GroupID])
	}
	return post
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, comment *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[comment.PostID]; !ok {
		return fmt.Errorf("post %d does not exist", comment.PostID)
	}
	if _, ok := r.s.users[comment.AuthorID]; !ok {
		return fmt.Errorf("author %d does not exist", comment.AuthorID)
	}
	comment.ID = r.s.nextID()
	comment.CreatedAt = r.s.now()
	stored := *comment
	stored.Author = nil
	r.s.comments[comment.ID] = &stored
	return nil
}

func (r commentRepo) ListByPost(_ context.Context, postID int) ([]*model.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comments := []*model.Comment{}
	for _, c := range r.s.comments {
		if c.PostID != postID {
			continue
		}
		comment := *c
		comment.Author = copyUser(r.s.users[c.AuthorID])
		comments = append(comments, &comment)
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

type followRepo struct{ s *Store }

func (r followRepo) GetOrCreate(_ context.Context, userID, authorID int) (*model.Follow, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := followKey{userID, authorID}
	if f, ok := r.s.follows[key]; ok {
		follow := *f
		return &follow, false, nil
	}
	if userID == authorID {
		return nil, false, fmt.Errorf("user %d cannot follow themselves", userID)
	}
	f := &model.Follow{
		ID:        r.s.nextID(),
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: r.s.now(),
	}
	r.s.follows[key] = f
	follow := *f
	return &follow, true, nil
}

func (r followRepo) Find(_ context.Context, userID, authorID int) (*model.Follow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.follows[followKey{userID, authorID}]
	if !ok {
		return nil, nil
	}
	follow := *f
	return &follow, nil
}

func (r followRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for key, f := range r.s.follows {
		if f.ID == id {
			delete(r.s.follows, key)
		}
	}
	return nil
}

func (r followRepo) Exists(_ context.Context, userID, authorID int) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.follows[followKey{userID, authorID}]
	return ok, nil
}

func (r followRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.follows), nil
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	user := *u
	return &user
}

func copyGroup(g *model.Group) *model.Group {
	if g == nil {
		return nil
	}
	group := *g
	return &group
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func stripPost(p *model.Post) *model.Post {
	post := *p
	post.GroupID = copyIntPtr(p.GroupID)
	post.Author = nil
	post.Group = nil
	return &post
}
