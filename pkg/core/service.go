package core

import (
	"context"
	"errors"
)

// Service handles the business logic for posts.
type Service struct {
	repo Repository
}

// NewService creates a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SavePost saves a post with business validation.
func (s *Service) SavePost(ctx context.Context, id string, content string, metadata Metadata) error {
	if id == "" {
		return ErrEmptyID
	}

	post := Post{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	}

	return s.repo.Save(ctx, post)
}

// GetPost retrieves a post.
func (s *Service) GetPost(ctx context.Context, id string) (Post, error) {
	if id == "" {
		return Post{}, ErrEmptyID
	}
	return s.repo.Get(ctx, id)
}

// ListPosts retrieves all posts.
func (s *Service) ListPosts(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return s.repo.Delete(ctx, id)
}

// Sync synchronizes the vault with its remote if the repository supports it.
func (s *Service) Sync(ctx context.Context) error {
	syncable, ok := s.repo.(Syncable)
	if !ok {
		return errors.New("repository does not support synchronization")
	}
	return syncable.Sync(ctx)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}
