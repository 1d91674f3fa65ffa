package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-service/internal/content"
	"course-service/internal/models"
	"course-service/internal/repository"
	"course-service/internal/store"
)

const testMeta = `id: go-basics
title: Go Basics
description: An introduction to the Go programming language.
duration: 4h
level: Beginner
area: Programming
tags:
  - go
instructor:
  id: ana
`

const testContent = `# Go Basics

A short course covering enough of the Go programming language to write real programs with confidence and idiomatic style.

## Getting Started

Install the toolchain.

## Wrapping Up

You made it.
`

const testQuizYAML = `course_id: go-basics
title: Go Basics Quiz
time_limit: 120
passing_score: 70
questions:
  - id: q1
    type: multiple_choice_single
    question: Which keyword declares a variable?
    options: ["var", "let"]
    correct_answer: 0
  - id: q2
    type: true_false
    question: Go compiles to machine code, true or false?
    options: ["True", "False"]
    correct_answer: true
`

const testInstructors = `instructors:
  - id: ana
    name: Ana Souza
`

func newTestEnv(t *testing.T) (*content.Loader, *repository.ProgressRepository) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "courses", "go-basics")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.yml"), []byte(testMeta), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.md"), []byte(testContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quiz.yml"), []byte(testQuizYAML), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "instructors"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "instructors", "instructors.yml"), []byte(testInstructors), 0o644))

	kv := store.NewMemory()
	profiles := repository.NewProfileRepository(kv)
	repo := repository.NewProgressRepository(kv, profiles)
	return content.NewLoader(root), repo
}

func finishContent(t *testing.T, repo *repository.ProgressRepository) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []string{"introducao", "getting-started", "wrapping-up"} {
		_, err := repo.MarkSectionRead(ctx, "go-basics", id, 3)
		require.NoError(t, err)
	}
}

func TestStartSessionRequiresFinishedContent(t *testing.T) {
	loader, repo := newTestEnv(t)
	svc := NewQuizService(repo, loader, nil)
	ctx := context.Background()

	_, _, err := svc.StartSession(ctx, "go-basics")
	assert.ErrorIs(t, err, ErrCourseNotCompleted)

	finishContent(t, repo)

	token, quiz, err := svc.StartSession(ctx, "go-basics")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "go-basics", quiz.CourseID)
}

func TestQuizSessionLifecycle(t *testing.T) {
	loader, repo := newTestEnv(t)
	svc := NewQuizService(repo, loader, nil)
	ctx := context.Background()
	finishContent(t, repo)

	token, _, err := svc.StartSession(ctx, "go-basics")
	require.NoError(t, err)

	require.NoError(t, svc.Answer(token, "q1", models.IndexAnswer(0)))
	require.NoError(t, svc.Answer(token, "q2", models.BoolAnswer(true)))

	state, err := svc.State(token)
	require.NoError(t, err)
	assert.Equal(t, 2, state.AnsweredCount)

	result, err := svc.Finish(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)

	// the result is durably recorded with its attempt counter
	record, err := repo.Load(ctx, "go-basics")
	require.NoError(t, err)
	require.NotNil(t, record.QuizResult)
	assert.Equal(t, 100, record.QuizResult.Score)
	assert.Equal(t, 1, record.QuizResult.Attempts)
	assert.False(t, record.QuizResult.CompletedAt.IsZero())

	// finishing again returns the frozen result
	again, err := svc.Finish(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, result.Score, again.Score)
}

func TestQuizRetryCountsAttempts(t *testing.T) {
	loader, repo := newTestEnv(t)
	svc := NewQuizService(repo, loader, nil)
	ctx := context.Background()
	finishContent(t, repo)

	token, _, err := svc.StartSession(ctx, "go-basics")
	require.NoError(t, err)

	require.NoError(t, svc.Answer(token, "q1", models.IndexAnswer(1)))
	result, err := svc.Finish(ctx, token)
	require.NoError(t, err)
	assert.False(t, result.Passed)

	require.NoError(t, svc.Retry(token))
	require.NoError(t, svc.Answer(token, "q1", models.IndexAnswer(0)))
	require.NoError(t, svc.Answer(token, "q2", models.BoolAnswer(true)))
	result, err = svc.Finish(ctx, token)
	require.NoError(t, err)
	assert.True(t, result.Passed)

	record, err := repo.Load(ctx, "go-basics")
	require.NoError(t, err)
	assert.Equal(t, 2, record.QuizResult.Attempts)
}

func TestAnswerRejectedAfterExpiry(t *testing.T) {
	loader, repo := newTestEnv(t)
	svc := NewQuizService(repo, loader, nil)
	ctx := context.Background()
	finishContent(t, repo)

	token, _, err := svc.StartSession(ctx, "go-basics")
	require.NoError(t, err)

	svc.mu.Lock()
	timer := svc.sessions[token].timer
	svc.mu.Unlock()
	for !timer.Expired() {
		timer.Tick()
	}

	err = svc.Answer(token, "q1", models.IndexAnswer(0))
	assert.ErrorIs(t, err, ErrTimeExpired)
}

func TestSessionNotFound(t *testing.T) {
	loader, repo := newTestEnv(t)
	svc := NewQuizService(repo, loader, nil)

	err := svc.Answer("missing", "q1", models.IndexAnswer(0))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.State("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
