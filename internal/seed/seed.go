// Package seed provisions the demo accounts and the starter curriculum on an empty database.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"quiz-learn/internal/config"
	"quiz-learn/internal/domain"
	"quiz-learn/internal/logger"

	"go.uber.org/zap"
)

// AdminUsername marks a seeded database. Its presence makes Run a no-op.
const AdminUsername = "admin"

//go:embed curriculum.json
var curriculumJSON []byte

type Curriculum struct {
	Topics []CurriculumTopic `json:"topics"`
}

type CurriculumTopic struct {
	Title     string                  `json:"title"`
	Content   string                  `json:"content"`
	OrderNum  int                     `json:"order_num"`
	Questions []domain.QuestionImport `json:"questions"`
}

// LoadCurriculum decodes the embedded curriculum.
func LoadCurriculum() (*Curriculum, error) {
	var c Curriculum
	if err := json.Unmarshal(curriculumJSON, &c); err != nil {
		return nil, fmt.Errorf("failed to decode curriculum: %w", err)
	}
	return &c, nil
}

type Seeder struct {
	userRepo     domain.UserRepository
	topicRepo    domain.TopicRepository
	questionRepo domain.QuestionRepository
	hasher       domain.PasswordHasher
	txManager    domain.TransactionManager
	cfg          config.SeedConfig
}

func NewSeeder(
	userRepo domain.UserRepository,
	topicRepo domain.TopicRepository,
	questionRepo domain.QuestionRepository,
	hasher domain.PasswordHasher,
	txManager domain.TransactionManager,
	cfg config.SeedConfig,
) *Seeder {
	return &Seeder{
		userRepo:     userRepo,
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
		hasher:       hasher,
		txManager:    txManager,
		cfg:          cfg,
	}
}

// Run seeds everything in one transaction and reports whether anything was written.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	curriculum, err := LoadCurriculum()
	if err != nil {
		return false, err
	}

	seeded := false
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.userRepo.GetUserByUsername(ctx, AdminUsername)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", AdminUsername, err)
		}
		if existing != nil {
			return nil
		}

		admin, err := s.createAccounts(ctx)
		if err != nil {
			return err
		}
		if err := s.createCurriculum(ctx, curriculum, admin.ID); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		logger.Get().Info("Seeded initial data",
			zap.Int("topics", len(curriculum.Topics)),
			zap.Int("questions", curriculum.questionCount()))
	} else {
		logger.Get().Debug("Seed skipped, admin account already exists")
	}
	return seeded, nil
}

func (s *Seeder) createAccounts(ctx context.Context) (*domain.User, error) {
	accounts := []struct {
		username string
		password string
		role     domain.Role
	}{
		{AdminUsername, s.cfg.AdminPassword, domain.RoleAdmin},
		{"teacher", s.cfg.TeacherPassword, domain.RoleTeacher},
		{"student", s.cfg.StudentPassword, domain.RoleStudent},
	}

	var admin *domain.User
	for _, a := range accounts {
		hash, err := s.hasher.Hash(a.password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", a.username, err)
		}
		u := &domain.User{Username: a.username, PasswordHash: hash, Role: a.role}
		if err := s.userRepo.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", a.username, err)
		}
		if a.role == domain.RoleAdmin {
			admin = u
		}
	}
	return admin, nil
}

func (s *Seeder) createCurriculum(ctx context.Context, c *Curriculum, authorID string) error {
	for _, ct := range c.Topics {
		topic := &domain.Topic{Title: ct.Title, Content: ct.Content, OrderNum: ct.OrderNum, CreatedBy: authorID}
		if errs := topic.Validate(); len(errs) > 0 {
			return fmt.Errorf("invalid seed topic %q: %w", ct.Title, errs)
		}
		if err := s.topicRepo.CreateTopic(ctx, topic); err != nil {
			return fmt.Errorf("failed to create topic %q: %w", ct.Title, err)
		}

		for i, item := range ct.Questions {
			q := item.ToQuestion(topic.ID, authorID)
			difficulty, err := domain.ParseDifficulty(string(q.Difficulty))
			if err != nil {
				return fmt.Errorf("invalid seed question %d of %q: %w", i, ct.Title, err)
			}
			q.Difficulty = difficulty
			if errs := q.Validate(); len(errs) > 0 {
				return fmt.Errorf("invalid seed question %d of %q: %w", i, ct.Title, errs)
			}
			if err := s.questionRepo.CreateQuestion(ctx, q); err != nil {
				return fmt.Errorf("failed to create question %d of %q: %w", i, ct.Title, err)
			}
		}
	}
	return nil
}

func (c *Curriculum) questionCount() int {
	n := 0
	for _, t := range c.Topics {
		n += len(t.Questions)
	}
	return n
}
