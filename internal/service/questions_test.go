package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/qaforum-server/internal/mocks"
	"github.com/dtroode/qaforum-server/internal/model"
	"github.com/dtroode/qaforum-server/internal/testutil"
)

type forumFixture struct {
	users     *Users
	questions *Questions
	persister *mocks.Persister
}

func newForum(t *testing.T, maxQuestions, maxAnswers int, usernames ...string) forumFixture {
	t.Helper()

	p := mocks.NewPersister(t)
	p.On("SaveUsers", mock.Anything, mock.Anything).Return(nil).Maybe()

	log := testutil.MakeNoopLogger()
	users := NewUsers(p, NewSHA256Hasher(""), 100, log)
	for _, name := range usernames {
		require.NoError(t, users.Register(context.Background(), name, "pw"))
	}

	return forumFixture{
		users:     users,
		questions: NewQuestions(users, p, maxQuestions, maxAnswers, log),
		persister: p,
	}
}

func (f forumFixture) acceptQuestions() {
	f.persister.On("SaveQuestions", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (f forumFixture) user(t *testing.T, name string) model.User {
	t.Helper()

	u, ok := f.users.FindByUsername(context.Background(), name)
	require.True(t, ok)
	return u
}

func TestQuestions_PostCreditsAuthor(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 10, "alice")
	f.acceptQuestions()

	idx, err := f.questions.Post(ctx, "alice", "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = f.questions.Post(ctx, "alice", "Why?")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	assert.Equal(t, 120, f.user(t, "alice").Credits)
	assert.Equal(t, []model.QuestionSummary{
		{Index: 0, Text: "What is 2+2?", Author: "alice"},
		{Index: 1, Text: "Why?", Author: "alice"},
	}, f.questions.List(ctx))
}

func TestQuestions_PostCapacity(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 1, 10, "alice")
	f.acceptQuestions()

	_, err := f.questions.Post(ctx, "alice", "first")
	require.NoError(t, err)

	_, err = f.questions.Post(ctx, "alice", "second")
	assert.ErrorIs(t, err, model.ErrCapacityExceeded)
	assert.Equal(t, 110, f.user(t, "alice").Credits)
}

func TestQuestions_PostPersistFailure(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 10, "alice")
	f.persister.On("SaveQuestions", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := f.questions.Post(ctx, "alice", "lost")
	require.Error(t, err)

	assert.Empty(t, f.questions.List(ctx))
	assert.Equal(t, model.InitialCredits, f.user(t, "alice").Credits)
}

func TestQuestions_Answer(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 2, "alice", "bob")
	f.acceptQuestions()

	_, err := f.questions.Post(ctx, "alice", "What is 2+2?")
	require.NoError(t, err)

	ai, err := f.questions.Answer(ctx, 0, "bob", "4")
	require.NoError(t, err)
	assert.Equal(t, 0, ai)
	assert.Equal(t, 105, f.user(t, "bob").Credits)

	ai, err = f.questions.Answer(ctx, 0, "alice", "four")
	require.NoError(t, err)
	assert.Equal(t, 1, ai)

	_, err = f.questions.Answer(ctx, 0, "bob", "IV")
	assert.ErrorIs(t, err, model.ErrCapacityExceeded)

	_, err = f.questions.Answer(ctx, 5, "bob", "?")
	assert.ErrorIs(t, err, model.ErrQuestionNotFound)

	_, err = f.questions.Answer(ctx, -1, "bob", "?")
	assert.ErrorIs(t, err, model.ErrQuestionNotFound)

	assert.Equal(t, 105, f.user(t, "bob").Credits)
	assert.Equal(t, 2, f.questions.List(ctx)[0].AnswerCount)
}

func TestQuestions_AnswerPersistFailure(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 10, "alice", "bob")
	f.persister.On("SaveQuestions", mock.Anything, mock.Anything).Return(nil).Once()
	f.persister.On("SaveQuestions", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := f.questions.Post(ctx, "alice", "q")
	require.NoError(t, err)

	_, err = f.questions.Answer(ctx, 0, "bob", "a")
	require.Error(t, err)

	assert.Equal(t, 0, f.questions.List(ctx)[0].AnswerCount)
	assert.Equal(t, model.InitialCredits, f.user(t, "bob").Credits)
}

func TestQuestions_Rate(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 10, "alice", "bob")
	f.acceptQuestions()

	_, err := f.questions.Post(ctx, "alice", "What is 2+2?")
	require.NoError(t, err)
	_, err = f.questions.Answer(ctx, 0, "bob", "4")
	require.NoError(t, err)

	require.NoError(t, f.questions.Rate(ctx, 0, 0, "alice", 4))
	assert.Equal(t, 4, f.user(t, "bob").Score)

	// Re-rating overwrites the stored rating but keeps adding to the score.
	require.NoError(t, f.questions.Rate(ctx, 0, 0, "alice", 2))
	assert.Equal(t, 6, f.user(t, "bob").Score)
	assert.Equal(t, 2, f.questions.questions[0].Answers[0].Rating)
}

func TestQuestions_Rate_Errors(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 10, "alice", "bob")
	f.acceptQuestions()

	_, err := f.questions.Post(ctx, "alice", "q")
	require.NoError(t, err)
	_, err = f.questions.Answer(ctx, 0, "bob", "a")
	require.NoError(t, err)
	_, err = f.questions.Answer(ctx, 0, "ghost", "orphan")
	require.ErrorIs(t, err, model.ErrUserNotFound)

	tests := []struct {
		name          string
		questionIndex int
		answerIndex   int
		rater         string
		wantErr       error
	}{
		{name: "bad question", questionIndex: 3, answerIndex: 0, rater: "alice", wantErr: model.ErrQuestionNotFound},
		{name: "bad question wins over not author", questionIndex: 3, answerIndex: 0, rater: "bob", wantErr: model.ErrQuestionNotFound},
		{name: "bad answer", questionIndex: 0, answerIndex: 9, rater: "alice", wantErr: model.ErrAnswerNotFound},
		{name: "not author", questionIndex: 0, answerIndex: 0, rater: "bob", wantErr: model.ErrNotAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.questions.Rate(ctx, tt.questionIndex, tt.answerIndex, tt.rater, 5)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 0, f.user(t, "bob").Score)
}

func TestQuestions_Rate_AnswerAuthorMissing(t *testing.T) {
	ctx := context.Background()
	p := mocks.NewPersister(t)
	p.On("LoadQuestions", mock.Anything).Return([]model.Question{
		{Text: "q", Author: "alice", Answers: []model.Answer{{Text: "a", Author: "gone"}}},
	}, nil)
	p.On("SaveUsers", mock.Anything, mock.Anything).Return(nil)

	log := testutil.MakeNoopLogger()
	users := NewUsers(p, NewSHA256Hasher(""), 10, log)
	require.NoError(t, users.Register(ctx, "alice", "pw"))

	questions := NewQuestions(users, p, 10, 10, log)
	require.NoError(t, questions.Load(ctx))

	assert.ErrorIs(t, questions.Rate(ctx, 0, 0, "alice", 3), model.ErrUserNotFound)
	assert.Equal(t, 0, questions.questions[0].Answers[0].Rating)
}

func TestQuestions_RatePersistFailure(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 10, "alice", "bob")
	f.persister.On("SaveQuestions", mock.Anything, mock.Anything).Return(nil).Twice()
	f.persister.On("SaveQuestions", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := f.questions.Post(ctx, "alice", "q")
	require.NoError(t, err)
	_, err = f.questions.Answer(ctx, 0, "bob", "a")
	require.NoError(t, err)

	require.Error(t, f.questions.Rate(ctx, 0, 0, "alice", 5))
	assert.Equal(t, 0, f.user(t, "bob").Score)
	assert.Equal(t, 0, f.questions.questions[0].Answers[0].Rating)
}

func TestQuestions_Search(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 10, 10, "alice", "bob")
	f.acceptQuestions()

	_, err := f.questions.Search(ctx, "anything")
	assert.ErrorIs(t, err, model.ErrQuestionNotFound)

	_, err = f.questions.Post(ctx, "alice", "What is 2+2?")
	require.NoError(t, err)
	_, err = f.questions.Post(ctx, "bob", "What is Go?")
	require.NoError(t, err)
	_, err = f.questions.Answer(ctx, 0, "bob", "4")
	require.NoError(t, err)
	_, err = f.questions.Answer(ctx, 0, "alice", "four")
	require.NoError(t, err)

	res, err := f.questions.Search(ctx, "WHAT")
	require.NoError(t, err)
	assert.Equal(t, model.SearchResult{Question: "What is 2+2?", Answers: []string{"4", "four"}}, res)

	res, err = f.questions.Search(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, "What is Go?", res.Question)
	assert.Empty(t, res.Answers)

	_, err = f.questions.Search(ctx, "rust")
	assert.ErrorIs(t, err, model.ErrQuestionNotFound)
}

func TestQuestions_ConcurrentPosts(t *testing.T) {
	ctx := context.Background()
	f := newForum(t, 100, 10, "alice")
	f.acceptQuestions()

	const posts = 50

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		indices []int
	)
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			idx, err := f.questions.Post(ctx, "alice", "q")
			assert.NoError(t, err)

			mu.Lock()
			indices = append(indices, idx)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(indices)
	for i, idx := range indices {
		assert.Equal(t, i, idx)
	}
	assert.Len(t, f.questions.List(ctx), posts)
	assert.Equal(t, model.InitialCredits+posts*model.PostReward, f.user(t, "alice").Credits)
}
