package service

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spilno/spilno-backend/internal/feed"
	"github.com/spilno/spilno-backend/internal/feed/repository"
)

// ErrNotFound is returned when an operation targets a publication that does
// not exist (currently only partial updates care).
var ErrNotFound = repository.ErrNotFound

// Service exposes the feed operations: publications, their comments and likes.
// Every method is a single store call; the repositories own consistency.
type Service struct {
	pubs     repository.Publications
	comments repository.Comments
	likes    repository.Likes
}

func New(p repository.Publications, c repository.Comments, l repository.Likes) *Service {
	return &Service{pubs: p, comments: c, likes: l}
}

// NewMemoryService returns a Service backed by in-memory repositories.
func NewMemoryService() *Service {
	return New(repository.NewMemoryPublications(), repository.NewMemoryComments(), repository.NewMemoryLikes())
}

// NewMongoService returns a Service backed by the given Mongo database.
func NewMongoService(db *mongo.Database) *Service {
	return New(
		repository.NewMongoPublications(db.Collection("publications")),
		repository.NewMongoComments(db.Collection("comments")),
		repository.NewMongoLikes(db.Collection("likes")),
	)
}

func (s *Service) ListPublications(ctx context.Context) ([]feed.Document, error) {
	return s.pubs.List(ctx)
}

// ListPublicationsByUser filters by the userId field; an empty userID lists everything.
func (s *Service) ListPublicationsByUser(ctx context.Context, userID string) ([]feed.Document, error) {
	if userID == "" {
		return s.pubs.List(ctx)
	}
	return s.pubs.ListByUser(ctx, userID)
}

func (s *Service) CreatePublication(ctx context.Context, fields feed.Fields) (feed.Document, error) {
	id, err := s.pubs.Create(ctx, fields)
	if err != nil {
		return feed.Document{}, err
	}
	return feed.Document{ID: id, Fields: fields}, nil
}

// UpdatePublication merges fields into the existing document. Returns
// ErrNotFound when the id does not resolve to a document.
func (s *Service) UpdatePublication(ctx context.Context, id string, fields feed.Fields) error {
	return s.pubs.Update(ctx, id, fields)
}

func (s *Service) DeletePublication(ctx context.Context, id string) error {
	return s.pubs.Delete(ctx, id)
}

func (s *Service) AddComment(ctx context.Context, publicationID string, fields feed.Fields) (feed.Document, error) {
	id, err := s.comments.Create(ctx, publicationID, fields)
	if err != nil {
		return feed.Document{}, err
	}
	return feed.Document{ID: id, Fields: fields}, nil
}

// ListComments returns the publication's comments newest-first by createdAt.
func (s *Service) ListComments(ctx context.Context, publicationID string) ([]feed.Document, error) {
	return s.comments.ListByPublication(ctx, publicationID)
}

func (s *Service) AddLike(ctx context.Context, publicationID, userID string) error {
	return s.likes.Put(ctx, publicationID, userID)
}

func (s *Service) RemoveLike(ctx context.Context, publicationID, userID string) error {
	return s.likes.Delete(ctx, publicationID, userID)
}

func (s *Service) CountLikes(ctx context.Context, publicationID string) (int64, error) {
	return s.likes.Count(ctx, publicationID)
}

func (s *Service) HasLiked(ctx context.Context, publicationID, userID string) (bool, error) {
	return s.likes.Exists(ctx, publicationID, userID)
}
