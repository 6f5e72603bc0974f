package service

import (
	"context"
	"errors"
	"testing"

	"quiz-learn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type contentFixture struct {
	topics    *MockTopicRepository
	questions *MockQuestionRepository
	tx        *MockTransactionManager
	stats     *recordingInvalidator
	svc       ContentService
}

func newContentFixture() *contentFixture {
	f := &contentFixture{
		topics:    new(MockTopicRepository),
		questions: new(MockQuestionRepository),
		tx:        &MockTransactionManager{},
		stats:     &recordingInvalidator{},
	}
	f.svc = NewContentService(f.topics, f.questions, f.tx, f.stats)
	return f
}

func validQuestion(topicID string) *domain.Question {
	return &domain.Question{
		TopicID: topicID,
		Text:    "Which is a tautology?",
		Options: [domain.NumOptions]string{"p or not p", "p and not p", "p", ""},
		Correct: "p or not p",
	}
}

func TestContentService_CreateTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("TeacherBecomesOwner", func(t *testing.T) {
		f := newContentFixture()
		f.topics.On("CreateTopic", mock.Anything, mock.MatchedBy(func(topic *domain.Topic) bool {
			return topic.CreatedBy == teacherIdentity.UserID
		})).Return(nil)

		topic, err := f.svc.CreateTopic(ctx, teacherIdentity, &domain.Topic{Title: "Sets", Content: "<p>sets</p>", OrderNum: 1, CreatedBy: "spoofed"})
		require.NoError(t, err)
		assert.Equal(t, teacherIdentity.UserID, topic.CreatedBy)
		assert.Equal(t, 1, f.stats.calls)
		f.topics.AssertExpectations(t)
	})

	t.Run("StudentDenied", func(t *testing.T) {
		f := newContentFixture()
		_, err := f.svc.CreateTopic(ctx, studentIdentity, &domain.Topic{Title: "x", Content: "y"})
		assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
		f.topics.AssertNotCalled(t, "CreateTopic", mock.Anything, mock.Anything)
	})

	t.Run("ValidationFirst", func(t *testing.T) {
		f := newContentFixture()
		_, err := f.svc.CreateTopic(ctx, adminIdentity, &domain.Topic{OrderNum: -1})
		requireValidationCode(t, err, "title", domain.CodeMissingField)
		requireValidationCode(t, err, "order_num", domain.CodeValidation)
	})
}

func TestContentService_UpdateTopic_Ownership(t *testing.T) {
	ctx := context.Background()
	patch := &domain.Topic{Title: "New", Content: "Body", OrderNum: 3}

	tests := []struct {
		name    string
		actor   domain.Identity
		owner   string
		allowed bool
	}{
		{"OwnTopic", teacherIdentity, teacherIdentity.UserID, true},
		{"UnownedTopic", teacherIdentity, "", true},
		{"OtherTeachersTopic", teacherIdentity, "teacher-2", false},
		{"AdminAnyTopic", adminIdentity, "teacher-2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture()
			f.topics.On("GetTopicByID", mock.Anything, "t1").Return(&domain.Topic{ID: "t1", Title: "Old", Content: "Old", CreatedBy: tt.owner}, nil)
			f.topics.On("UpdateTopic", mock.Anything, mock.Anything).Return(nil)

			topic, err := f.svc.UpdateTopic(ctx, tt.actor, "t1", patch)
			if !tt.allowed {
				assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
				f.topics.AssertNotCalled(t, "UpdateTopic", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "New", topic.Title)
			assert.Equal(t, 3, topic.OrderNum)
			assert.Equal(t, tt.owner, topic.CreatedBy)
		})
	}
}

func TestContentService_DeleteTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminCascades", func(t *testing.T) {
		f := newContentFixture()
		f.topics.On("GetTopicByID", mock.Anything, "t1").Return(&domain.Topic{ID: "t1"}, nil)
		f.questions.On("DeleteByTopic", mock.Anything, "t1").Return(int64(3), nil)
		f.topics.On("DeleteTopic", mock.Anything, "t1").Return(nil)

		removed, err := f.svc.DeleteTopic(ctx, adminIdentity, "t1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		assert.Equal(t, 1, f.tx.Calls)
		assert.Equal(t, 1, f.stats.calls)
		f.questions.AssertExpectations(t)
		f.topics.AssertExpectations(t)
	})

	t.Run("TeacherDenied", func(t *testing.T) {
		f := newContentFixture()
		_, err := f.svc.DeleteTopic(ctx, teacherIdentity, "t1")
		assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
		assert.Equal(t, 0, f.tx.Calls)
	})

	t.Run("TopicDeleteFails", func(t *testing.T) {
		f := newContentFixture()
		f.topics.On("GetTopicByID", mock.Anything, "t1").Return(&domain.Topic{ID: "t1"}, nil)
		f.questions.On("DeleteByTopic", mock.Anything, "t1").Return(int64(2), nil)
		f.topics.On("DeleteTopic", mock.Anything, "t1").Return(errors.New("locked"))

		_, err := f.svc.DeleteTopic(ctx, adminIdentity, "t1")
		assert.True(t, domain.IsErrorCode(err, domain.CodePersistence))
		assert.Equal(t, 0, f.stats.calls)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newContentFixture()
		f.topics.On("GetTopicByID", mock.Anything, "nope").Return(nil, nil)

		_, err := f.svc.DeleteTopic(ctx, adminIdentity, "nope")
		assert.True(t, domain.IsErrorCode(err, domain.CodeNotFound))
		f.questions.AssertNotCalled(t, "DeleteByTopic", mock.Anything, mock.Anything)
	})
}

func TestContentService_GetTopic(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture()
	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(&domain.Topic{ID: "t1"}, nil)
	f.topics.On("GetTopicByID", mock.Anything, "t2").Return(nil, nil)
	f.questions.On("ListByTopic", mock.Anything, "t1").Return([]*domain.Question{{ID: "q1", TopicID: "t1"}}, nil)

	topic, questions, err := f.svc.GetTopic(ctx, studentIdentity, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", topic.ID)
	assert.Len(t, questions, 1)

	_, _, err = f.svc.GetTopic(ctx, studentIdentity, "t2")
	assert.True(t, domain.IsErrorCode(err, domain.CodeNotFound))

	_, _, err = f.svc.GetTopic(ctx, domain.Identity{UserID: "x", Role: "guest"}, "t1")
	assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
}

func TestContentService_CreateQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsDifficulty", func(t *testing.T) {
		f := newContentFixture()
		f.topics.On("GetTopicByID", mock.Anything, "t1").Return(&domain.Topic{ID: "t1"}, nil)
		f.questions.On("CreateQuestion", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
			return q.Difficulty == domain.DifficultyMedium && q.CreatedBy == teacherIdentity.UserID
		})).Return(nil)

		_, err := f.svc.CreateQuestion(ctx, teacherIdentity, validQuestion("t1"))
		require.NoError(t, err)
		f.questions.AssertExpectations(t)
	})

	t.Run("NormalizesDifficultyCase", func(t *testing.T) {
		f := newContentFixture()
		f.topics.On("GetTopicByID", mock.Anything, "t1").Return(&domain.Topic{ID: "t1"}, nil)
		f.questions.On("CreateQuestion", mock.Anything, mock.Anything).Return(nil)

		q := validQuestion("t1")
		q.Difficulty = " Hard "
		created, err := f.svc.CreateQuestion(ctx, adminIdentity, q)
		require.NoError(t, err)
		assert.Equal(t, domain.DifficultyHard, created.Difficulty)
	})

	t.Run("UnknownTopic", func(t *testing.T) {
		f := newContentFixture()
		f.topics.On("GetTopicByID", mock.Anything, "ghost").Return(nil, nil)

		_, err := f.svc.CreateQuestion(ctx, teacherIdentity, validQuestion("ghost"))
		requireValidationCode(t, err, "topic_id", domain.CodeValidation)
		f.questions.AssertNotCalled(t, "CreateQuestion", mock.Anything, mock.Anything)
	})

	t.Run("CorrectMustBeAnOption", func(t *testing.T) {
		f := newContentFixture()
		q := validQuestion("t1")
		q.Correct = "maybe"

		_, err := f.svc.CreateQuestion(ctx, teacherIdentity, q)
		requireValidationCode(t, err, "correct", domain.CodeValidation)
		assert.Equal(t, 0, f.tx.Calls)
	})

	t.Run("BadDifficulty", func(t *testing.T) {
		f := newContentFixture()
		q := validQuestion("t1")
		q.Difficulty = "extreme"

		_, err := f.svc.CreateQuestion(ctx, teacherIdentity, q)
		requireValidationCode(t, err, "difficulty", domain.CodeInvalidFormat)
	})

	t.Run("StudentDenied", func(t *testing.T) {
		f := newContentFixture()
		_, err := f.svc.CreateQuestion(ctx, studentIdentity, validQuestion("t1"))
		assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
	})
}

func TestContentService_UpdateQuestion_Ownership(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   domain.Identity
		owner   string
		allowed bool
	}{
		{"OwnQuestion", teacherIdentity, teacherIdentity.UserID, true},
		{"OtherTeacher", teacherIdentity, "teacher-2", false},
		{"Admin", adminIdentity, "teacher-2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture()
			f.questions.On("GetQuestionByID", mock.Anything, "q1").Return(&domain.Question{ID: "q1", TopicID: "t1", CreatedBy: tt.owner}, nil)
			f.topics.On("GetTopicByID", mock.Anything, "t2").Return(&domain.Topic{ID: "t2"}, nil)
			f.questions.On("UpdateQuestion", mock.Anything, mock.Anything).Return(nil)

			updated, err := f.svc.UpdateQuestion(ctx, tt.actor, "q1", validQuestion("t2"))
			if !tt.allowed {
				assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
				f.questions.AssertNotCalled(t, "UpdateQuestion", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "q1", updated.ID)
			assert.Equal(t, "t2", updated.TopicID)
			assert.Equal(t, tt.owner, updated.CreatedBy)
		})
	}
}

func TestContentService_DeleteQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("OtherTeacherDenied", func(t *testing.T) {
		f := newContentFixture()
		f.questions.On("GetQuestionByID", mock.Anything, "q1").Return(&domain.Question{ID: "q1", CreatedBy: "teacher-2"}, nil)

		err := f.svc.DeleteQuestion(ctx, teacherIdentity, "q1")
		assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
		f.questions.AssertNotCalled(t, "DeleteQuestion", mock.Anything, mock.Anything)
	})

	t.Run("Owner", func(t *testing.T) {
		f := newContentFixture()
		f.questions.On("GetQuestionByID", mock.Anything, "q1").Return(&domain.Question{ID: "q1", CreatedBy: teacherIdentity.UserID}, nil)
		f.questions.On("DeleteQuestion", mock.Anything, "q1").Return(nil)

		assert.NoError(t, f.svc.DeleteQuestion(ctx, teacherIdentity, "q1"))
		assert.Equal(t, 1, f.stats.calls)
		f.questions.AssertExpectations(t)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newContentFixture()
		f.questions.On("GetQuestionByID", mock.Anything, "q9").Return(nil, nil)

		err := f.svc.DeleteQuestion(ctx, adminIdentity, "q9")
		assert.True(t, domain.IsErrorCode(err, domain.CodeNotFound))
	})
}

func TestContentService_ListQuestions(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture()
	f.questions.On("ListAll", mock.Anything).Return([]*domain.Question{{ID: "a"}, {ID: "b"}}, nil)
	f.questions.On("ListByCreator", mock.Anything, teacherIdentity.UserID).Return([]*domain.Question{{ID: "a"}}, nil)

	all, err := f.svc.ListQuestions(ctx, adminIdentity)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := f.svc.ListQuestions(ctx, teacherIdentity)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = f.svc.ListQuestions(ctx, studentIdentity)
	assert.True(t, domain.IsErrorCode(err, domain.CodeAccessDenied))
}
