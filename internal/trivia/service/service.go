package service

import (
	"errors"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/arkdex/arkdex/backend/go-services/internal/trivia/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("not found")
)

// Service defines the trivia document operations used by the handler layer.
// Save validates before persisting; invalid documents never reach a repo.
type Service interface {
	Save(rec *trivia.Record) error
	Get(name string) (*trivia.Record, error)
	List() ([]*trivia.Record, error)
	Delete(name string) error
}

// Repo is the storage contract shared by the memory and Mongo repositories.
type Repo interface {
	Upsert(rec *trivia.Record) error
	GetByName(name string) (*trivia.Record, error)
	List() ([]*trivia.Record, error)
	Delete(name string) error
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return &triviaService{repo: repository.NewMemoryRepo()}
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection) Service {
	return &triviaService{repo: repository.NewMongoRepo(col)}
}

// NewService wraps an arbitrary repository (used by tests and the scraper CLI).
func NewService(repo Repo) Service {
	return &triviaService{repo: repo}
}

type triviaService struct {
	repo Repo
}

func (s *triviaService) Save(rec *trivia.Record) error {
	if err := rec.Document.Validate(); err != nil {
		return err
	}
	return s.repo.Upsert(rec)
}

func (s *triviaService) Get(name string) (*trivia.Record, error) {
	r, err := s.repo.GetByName(name)
	if err != nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *triviaService) List() ([]*trivia.Record, error) {
	return s.repo.List()
}

func (s *triviaService) Delete(name string) error {
	if err := s.repo.Delete(name); err != nil {
		return ErrNotFound
	}
	return nil
}
